package metrics

import (
	"maps"
	"strconv"
	"time"

	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
	obserrors "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/observability/errors"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// BadgeMetric captures one badge placement attempt.
type BadgeMetric struct {
	Index    int
	Duration time.Duration
	Err      error
}

// EmitBadgePlaced emits a counter and a timing for a single badge.
func EmitBadgePlaced(sink statsd.Sink, in BadgeMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": ResultSuccess}
	if in.Err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("badge.placed", 1, tags)
	if in.Duration > 0 {
		sink.Timing("badge.duration", in.Duration, CloneTags(tags))
	}
}

// EmitRunOutcome emits the terminal state of a batch run.
func EmitRunOutcome(sink statsd.Sink, out model.Outcome, elapsed time.Duration) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"state": string(out.State),
		"total": strconv.Itoa(out.Total),
	}
	if out.Err != nil {
		if class := obserrors.Classify(out.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("run.outcome", 1, tags)
	sink.Gauge("run.processed", float64(out.Processed), CloneTags(tags))
	if elapsed > 0 {
		sink.Timing("run.duration", elapsed, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	return maps.Clone(src)
}

package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"
)

// RunBuilder provides a fluent interface for building run history records.
type RunBuilder struct {
	run *model.Run
}

// NewRun creates a RunBuilder with sensible defaults.
func NewRun() *RunBuilder {
	return &RunBuilder{
		run: &model.Run{
			ID:         uuid.NewString(),
			SourcePath: "codes.txt",
			BadgeSize:  100,
			Margin:     10,
			MaxPerRow:  3,
			Total:      10,
			Status:     model.RunStateRunning,
			StartedAt:  TestTime(),
		},
	}
}

// WithSource sets the payload source path.
func (b *RunBuilder) WithSource(path string) *RunBuilder {
	b.run.SourcePath = path
	return b
}

// WithTotal sets the item count.
func (b *RunBuilder) WithTotal(total int) *RunBuilder {
	b.run.Total = total
	return b
}

// StartedAt sets the start time.
func (b *RunBuilder) StartedAt(at time.Time) *RunBuilder {
	b.run.StartedAt = at
	return b
}

// Build returns the run.
func (b *RunBuilder) Build() *model.Run {
	out := *b.run
	return &out
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return &s
}

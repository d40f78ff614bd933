package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_Validate(t *testing.T) {
	tests := []struct {
		name    string
		job     Job
		wantErr string
	}{
		{name: "valid", job: Job{BadgeSize: 100, Margin: 0, MaxPerRow: 1}},
		{name: "zero size", job: Job{BadgeSize: 0, MaxPerRow: 1}, wantErr: "badge size"},
		{name: "negative margin", job: Job{BadgeSize: 10, Margin: -1, MaxPerRow: 1}, wantErr: "margin"},
		{name: "zero per row", job: Job{BadgeSize: 10, MaxPerRow: 0}, wantErr: "max per row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJob_CloneDoesNotAlias(t *testing.T) {
	job := Job{Payloads: []string{"a", "b"}, BadgeSize: 10, MaxPerRow: 1}
	clone := job.Clone()
	clone.Payloads[0] = "changed"
	assert.Equal(t, "a", job.Payloads[0])
	assert.Equal(t, 2, clone.Total())
}

func TestSubmitRequest_Normalize(t *testing.T) {
	req := SubmitRequest{FilePath: " a.txt ", BadgeSize: " 100", Margin: "10 ", MaxPerRow: "\t3\n"}
	req.Normalize()
	assert.Equal(t, SubmitRequest{FilePath: "a.txt", BadgeSize: "100", Margin: "10", MaxPerRow: "3"}, req)
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 10, ProgressPercent(1, 10))
	assert.Equal(t, 33, ProgressPercent(1, 3))
	assert.Equal(t, 66, ProgressPercent(2, 3))
	assert.Equal(t, 100, ProgressPercent(3, 3))
}

func TestRunState_Terminal(t *testing.T) {
	assert.False(t, RunStateIdle.Terminal())
	assert.False(t, RunStateRunning.Terminal())
	assert.True(t, RunStateCompleted.Terminal())
	assert.True(t, RunStateCancelled.Terminal())
	assert.True(t, RunStateFailed.Terminal())
	assert.False(t, RunState("paused").Valid())
}

func TestCancellationFlag(t *testing.T) {
	var nilFlag *CancellationFlag
	assert.False(t, nilFlag.IsSet())

	var flag CancellationFlag
	assert.False(t, flag.IsSet())
	flag.Cancel()
	flag.Cancel()
	assert.True(t, flag.IsSet())
}

func TestRunState_CanTransition(t *testing.T) {
	tests := []struct {
		from, to RunState
		want     bool
	}{
		{RunStateIdle, RunStateRunning, true},
		{RunStateIdle, RunStateCompleted, false},
		{RunStateRunning, RunStateCompleted, true},
		{RunStateRunning, RunStateCancelled, true},
		{RunStateRunning, RunStateFailed, true},
		{RunStateRunning, RunStateIdle, false},
		{RunStateCompleted, RunStateRunning, false},
		{RunStateFailed, RunStateCancelled, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

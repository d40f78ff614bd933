// Package model defines the data types shared by the badge placement pipeline.
package model

import (
	"errors"
	"strings"
)

// Job describes one batch of payloads to place as a badge grid.
// A Job is immutable once handed to a BatchRun.
type Job struct {
	Payloads   []string `json:"payloads"`
	BadgeSize  float64  `json:"badge_size"`
	Margin     float64  `json:"margin"`
	MaxPerRow  int      `json:"max_per_row"`
	SourcePath string   `json:"source_path,omitempty"`
}

// Validate checks the layout invariants of a Job.
func (j *Job) Validate() error {
	if j.BadgeSize <= 0 {
		return errors.New("badge size must be > 0")
	}
	if j.Margin < 0 {
		return errors.New("margin must be >= 0")
	}
	if j.MaxPerRow < 1 {
		return errors.New("max per row must be >= 1")
	}
	return nil
}

// Total returns the number of items in the job.
func (j *Job) Total() int {
	return len(j.Payloads)
}

// Clone returns a copy whose payload slice does not alias the original.
func (j Job) Clone() Job {
	out := j
	out.Payloads = append([]string(nil), j.Payloads...)
	return out
}

// SubmitRequest is the raw job submission as received from a control surface.
// All four values are required and are parsed before anything starts.
type SubmitRequest struct {
	FilePath  string `json:"file_path"`
	BadgeSize string `json:"badge_size"`
	Margin    string `json:"margin"`
	MaxPerRow string `json:"max_per_row"`
}

// Normalize trims surrounding whitespace from every field.
func (r *SubmitRequest) Normalize() {
	r.FilePath = strings.TrimSpace(r.FilePath)
	r.BadgeSize = strings.TrimSpace(r.BadgeSize)
	r.Margin = strings.TrimSpace(r.Margin)
	r.MaxPerRow = strings.TrimSpace(r.MaxPerRow)
}

// GridPosition is the absolute placement of a badge's anchor in host coordinates.
type GridPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Package layout maps item indexes onto the badge grid.
package layout

import "github.com/ynyg-work/CorelDRAW-QRCode-Generate-Plugin/internal/domain/model"

// Grid holds the layout parameters of a job.
type Grid struct {
	BadgeSize float64
	Margin    float64
	MaxPerRow int
}

// GridFor returns the grid described by job.
func GridFor(job *model.Job) Grid {
	return Grid{BadgeSize: job.BadgeSize, Margin: job.Margin, MaxPerRow: job.MaxPerRow}
}

// Position returns the anchor of the badge at index.
// Rows advance towards negative y because the host canvas is y-up.
func Position(index int, badgeSize, margin float64, maxPerRow int) model.GridPosition {
	if maxPerRow < 1 {
		maxPerRow = 1
	}
	col := index % maxPerRow
	row := index / maxPerRow
	step := badgeSize + margin
	return model.GridPosition{
		X: float64(col) * step,
		Y: -float64(row) * step,
	}
}

// Position returns the anchor of the badge at index on g.
func (g Grid) Position(index int) model.GridPosition {
	return Position(index, g.BadgeSize, g.Margin, g.MaxPerRow)
}

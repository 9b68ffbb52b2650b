package geometry

import (
	"errors"
	"fmt"
)

// ErrUnknownDragMode is returned when a drag mode string is not recognised
var ErrUnknownDragMode = errors.New("unknown drag mode")

// DragMode selects which part of the region a drag acts on
type DragMode string

const (
	DragMove DragMode = "move"
	DragNW   DragMode = "nw"
	DragNE   DragMode = "ne"
	DragSW   DragMode = "sw"
	DragSE   DragMode = "se"
)

// ParseDragMode parses one of move, nw, ne, sw, se
func ParseDragMode(s string) (DragMode, error) {
	switch m := DragMode(s); m {
	case DragMove, DragNW, DragNE, DragSW, DragSE:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDragMode, s)
}

// ApplyDrag returns the unclamped rectangle produced by dragging base by (dx, dy).
// Corner modes keep the opposite corner fixed.
func ApplyDrag(base Rect, mode DragMode, dx, dy float64) Rect {
	r := base
	switch mode {
	case DragMove:
		r.X += dx
		r.Y += dy
	case DragSE:
		// anchor: top-left
		r.W += dx
		r.H += dy
	case DragNW:
		// anchor: bottom-right
		r.X += dx
		r.Y += dy
		r.W -= dx
		r.H -= dy
	case DragNE:
		// anchor: bottom-left
		r.Y += dy
		r.W += dx
		r.H -= dy
	case DragSW:
		// anchor: top-right
		r.X += dx
		r.W -= dx
		r.H += dy
	}
	return r
}

// DragSession captures the state of one drag gesture.
type DragSession struct {
	mode  DragMode
	start Point
	base  Rect
}

// NewDragSession starts a drag at start over base.
func NewDragSession(mode DragMode, start Point, base Rect) *DragSession {
	return &DragSession{mode: mode, start: start, base: base}
}

// Move returns the raw rectangle for the pointer at p. The delta is always taken
// from the session start against the captured base, never from the previous frame.
func (s *DragSession) Move(p Point) Rect {
	dx, dy := p.Sub(s.start)
	return ApplyDrag(s.base, s.mode, dx, dy)
}

// Mode returns the session drag mode
func (s *DragSession) Mode() DragMode {
	return s.mode
}

// Package geometry resolves capture targets into exact pixel and logical
// rectangles across multi-display, variable-density setups.
package geometry

import (
	"fmt"
	"math"
)

// Point is a position in logical coordinates.
type Point struct {
	X, Y float64
}

// Rect is a rectangle in logical coordinates (origin + size).
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rect's center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies within the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// PixelSize is an output extent in device pixels.
type PixelSize struct {
	W, H int
}

func (s PixelSize) String() string { return fmt.Sprintf("%dx%d", s.W, s.H) }

// Area returns the extent's pixel count.
func (s PixelSize) Area() int { return s.W * s.H }

// PixelRect is a rectangle in device pixels.
type PixelRect struct {
	X, Y, W, H int
}

// Recording is the resolved capture geometry: the exact pixel output size
// and the source rectangle in logical coordinates handed to the capture
// service. Never mutated after resolution.
type Recording struct {
	PixelSize     PixelSize
	LogicalSource Rect
}

// Screen describes one attached display. Index is stable within a single
// process run only. Scale is device pixels per logical unit.
type Screen struct {
	Index        int
	ID           string
	LogicalFrame Rect
	Scale        float64
	Primary      bool
}

// PixelBounds returns the screen's extent in device pixels.
func (s Screen) PixelBounds() PixelSize {
	return PixelSize{
		W: int(math.Round(s.LogicalFrame.W * s.Scale)),
		H: int(math.Round(s.LogicalFrame.H * s.Scale)),
	}
}

// Window describes one on-screen window. Frames are logical coordinates in
// the global display space.
type Window struct {
	ID       string
	Title    string
	Frame    Rect
	OnScreen bool
	App      string
}

// Area returns the window's logical area, used to rank candidate windows.
func (w Window) Area() float64 { return w.Frame.W * w.Frame.H }

// TargetKind selects what a session captures.
type TargetKind int

const (
	TargetScreen TargetKind = iota
	TargetWindow
)

// Target is the resolved capture subject handed to the capture service.
type Target struct {
	Kind   TargetKind
	Screen Screen
	Window Window
}

// String renders the target for logs and summaries.
func (t Target) String() string {
	if t.Kind == TargetWindow {
		title := t.Window.Title
		if title == "" {
			title = "(untitled)"
		}
		return fmt.Sprintf("window %q of %s", title, t.Window.App)
	}
	return fmt.Sprintf("screen %d (%s)", t.Screen.Index, t.Screen.PixelBounds())
}

// Enumerator lists the displays and windows visible to a capture session.
// Queried fresh once per geometry resolution; results are never persisted.
type Enumerator interface {
	Screens() ([]Screen, error)
	Windows() ([]Window, error)
}

// Package geometry holds the coordinate math behind the crop region editor.
// Everything is expressed in page-local units; nothing here performs I/O.
package geometry

import "math"

// Point is a pointer position
type Point struct {
	X, Y float64
}

// Sub returns p - q
func (p Point) Sub(q Point) (dx, dy float64) {
	return p.X - q.X, p.Y - q.Y
}

// Size is a width/height pair
type Size struct {
	W, H float64
}

// Rect is a crop region
type Rect struct {
	X, Y, W, H float64
}

// Right returns x+w
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns y+h
func (r Rect) Bottom() float64 { return r.Y + r.H }

// epsilon absorbs float rounding in x+w after clamping x to page-w.
const epsilon = 1e-9

// Within reports whether r satisfies every region invariant for page and min
func (r Rect) Within(page, min Size) bool {
	return r.X >= 0 && r.Y >= 0 &&
		r.Right() <= page.W+epsilon && r.Bottom() <= page.H+epsilon &&
		r.W >= math.Min(min.W, page.W) && r.H >= math.Min(min.H, page.H)
}

// Clamp bounds r to the page.
//
// Width and height are bounded first, to the minimum and then to the page size,
// and only then is the origin bounded against the resized dimensions. When the
// minimum is larger than the page the page size wins.
func Clamp(r Rect, page, min Size) Rect {
	r.W = clamp(r.W, min.W, page.W)
	r.H = clamp(r.H, min.H, page.H)
	r.X = clamp(r.X, 0, page.W-r.W)
	r.Y = clamp(r.Y, 0, page.H-r.H)
	return r
}

// clamp applies lo then hi, so hi wins when they cross.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// Scale converts r from one coordinate space to another, e.g. preview pixels to page units.
func Scale(r Rect, from, to Size) Rect {
	if from.W == 0 || from.H == 0 {
		return Rect{}
	}
	sx := to.W / from.W
	sy := to.H / from.H
	return Rect{X: r.X * sx, Y: r.Y * sy, W: r.W * sx, H: r.H * sy}
}

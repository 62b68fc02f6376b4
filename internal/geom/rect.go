package geom

import "github.com/chewxy/math32"

// MinSelectionSize is the smallest selection edge, in image pixels. Anything
// smaller is expanded rather than rejected so a drag can never produce an
// unusable rectangle.
const MinSelectionSize float32 = 2

// Rect is a selection rectangle in image-pixel space.
type Rect struct {
	X, Y, W, H float32
}

// Normalize reorders the rectangle so that width and height are
// non-negative. It is total: any input yields an equivalent rectangle with
// X <= X+W and Y <= Y+H.
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// ClampToBox normalizes r and forces it inside [0,boxW] x [0,boxH] with both
// edges at least minSize. The size is fixed up before the final position
// clamp, so whenever the box itself is at least minSize on each axis the
// result is fully contained in the box.
func (r Rect) ClampToBox(boxW, boxH, minSize float32) Rect {
	r = r.Normalize()

	r.X = math32.Min(math32.Max(r.X, 0), boxW)
	r.Y = math32.Min(math32.Max(r.Y, 0), boxH)
	r.W = math32.Min(math32.Max(r.W, 0), boxW-r.X)
	r.H = math32.Min(math32.Max(r.H, 0), boxH-r.Y)

	if r.W < minSize {
		r.W = minSize
	}
	if r.H < minSize {
		r.H = minSize
	}

	// The minimum size may have pushed an edge past the box; slide the
	// origin back so the rectangle fits again.
	r.X = math32.Min(r.X, boxW-r.W)
	r.Y = math32.Min(r.Y, boxH-r.H)
	return r
}

// Contains reports whether p lies inside the rectangle, borders included.
func (r Rect) Contains(p ImagePoint) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Edges returns the rectangle as its four edge coordinates.
func (r Rect) Edges() (x0, y0, x1, y1 float32) {
	return r.X, r.Y, r.X + r.W, r.Y + r.H
}

// RectFromEdges builds a normalized rectangle spanning the two corner
// coordinates, in either order.
func RectFromEdges(x0, y0, x1, y1 float32) Rect {
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}.Normalize()
}

// RectFromPoints builds a normalized rectangle spanning two image points.
func RectFromPoints(a, b ImagePoint) Rect {
	return RectFromEdges(a.X, a.Y, b.X, b.Y)
}

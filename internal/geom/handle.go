package geom

import "github.com/chewxy/math32"

// Handle identifies one of the eight grab points on a selection rectangle:
// the four corners plus the four edge midpoints.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

// handleOrder is also the hit-test priority. On a near-minimum-size
// rectangle the hit boxes overlap; resolving in this fixed order keeps the
// outcome deterministic and is part of the contract.
var handleOrder = [8]Handle{
	HandleNW, HandleN, HandleNE, HandleE, HandleSE, HandleS, HandleSW, HandleW,
}

func (h Handle) String() string {
	switch h {
	case HandleNW:
		return "nw"
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	}
	return "none"
}

// Corner reports whether h is one of the four corner handles.
func (h Handle) Corner() bool {
	switch h {
	case HandleNW, HandleNE, HandleSE, HandleSW:
		return true
	}
	return false
}

// HandlePoint is a handle together with its position, in the same space as
// the rectangle it was derived from.
type HandlePoint struct {
	Handle Handle
	Point  ImagePoint
}

// handleHitHalf is half the width of a handle's square hit box.
const handleHitHalf float32 = 4

// handlePoint returns the position of h on r.
func handlePoint(h Handle, r Rect) ImagePoint {
	x0, y0, x1, y1 := r.Edges()
	cx := (x0 + x1) / 2
	cy := (y0 + y1) / 2
	switch h {
	case HandleNW:
		return ImagePoint{x0, y0}
	case HandleN:
		return ImagePoint{cx, y0}
	case HandleNE:
		return ImagePoint{x1, y0}
	case HandleE:
		return ImagePoint{x1, cy}
	case HandleSE:
		return ImagePoint{x1, y1}
	case HandleS:
		return ImagePoint{cx, y1}
	case HandleSW:
		return ImagePoint{x0, y1}
	default:
		return ImagePoint{x0, cy}
	}
}

// HandlesOf returns the eight handle points of r in hit-test order.
func HandlesOf(r Rect) []HandlePoint {
	out := make([]HandlePoint, 0, len(handleOrder))
	for _, h := range handleOrder {
		out = append(out, HandlePoint{Handle: h, Point: handlePoint(h, r)})
	}
	return out
}

// HitTestHandle returns the first handle of r whose square hit box contains
// p, or HandleNone.
func HitTestHandle(p ImagePoint, r Rect) Handle {
	for _, h := range handleOrder {
		hp := handlePoint(h, r)
		if math32.Abs(p.X-hp.X) <= handleHitHalf && math32.Abs(p.Y-hp.Y) <= handleHitHalf {
			return h
		}
	}
	return HandleNone
}

// Anchor returns the point of r opposite to the corner handle h. It is the
// fixed corner during an aspect-locked resize.
func (h Handle) Anchor(r Rect) ImagePoint {
	x0, y0, x1, y1 := r.Edges()
	switch h {
	case HandleNW:
		return ImagePoint{x1, y1}
	case HandleNE:
		return ImagePoint{x0, y1}
	case HandleSE:
		return ImagePoint{x0, y0}
	default: // HandleSW
		return ImagePoint{x1, y0}
	}
}

package geom

import "github.com/chewxy/math32"

const aspectEps float32 = 1e-6

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// ProjectAspect computes the free corner of an aspect-locked selection. The
// anchor is the fixed corner, cursor the live pointer position, ratio the
// locked width/height, and boxW/boxH the image bounds.
//
// The cursor drives whichever axis keeps the rectangle inside the cursor's
// reach: if the height implied by the cursor's horizontal offset fits under
// the vertical offset, the width wins, otherwise the height does. The
// endpoint is then clamped into the box; because clamping one axis alone
// would break the ratio, the other axis is re-derived from the clamped
// value. The result always lies inside the box and spans the anchor at the
// exact ratio (the rectangle may shrink to achieve that).
func ProjectAspect(anchor, cursor ImagePoint, ratio, boxW, boxH float32) ImagePoint {
	if ratio <= 0 {
		ratio = 1
	}
	dx := cursor.X - anchor.X
	dy := cursor.Y - anchor.Y
	sx := sign(dx)
	sy := sign(dy)
	adx := math32.Abs(dx)
	ady := math32.Abs(dy)

	candH := adx / ratio
	candW := ady * ratio

	var endX, endY float32
	if candH <= ady {
		endX = anchor.X + sx*adx
		endY = anchor.Y + sy*candH
	} else {
		endX = anchor.X + sx*candW
		endY = anchor.Y + sy*ady
	}

	endX = math32.Min(math32.Max(endX, 0), boxW)
	endY = math32.Min(math32.Max(endY, 0), boxH)

	// Re-derive one axis from the other so the clamped endpoint still
	// satisfies the ratio.
	if math32.Abs(endX-anchor.X) > aspectEps {
		h := math32.Abs(endX-anchor.X) / ratio
		endY = math32.Min(math32.Max(anchor.Y+sign(endY-anchor.Y)*h, 0), boxH)
	} else {
		w := math32.Abs(endY-anchor.Y) * ratio
		endX = math32.Min(math32.Max(anchor.X+sign(endX-anchor.X)*w, 0), boxW)
	}
	return ImagePoint{X: endX, Y: endY}
}

// Resize computes the rectangle that results from dragging handle h of the
// baseline rectangle to cursor. Edge handles move a single edge and ignore
// the aspect lock; corner handles move both adjacent edges, or span
// anchor-to-projection when the lock is on. The result is expanded to the
// minimum selection size symmetrically around each axis midpoint and clamped
// into the image.
func Resize(baseline Rect, h Handle, cursor ImagePoint, imgW, imgH float32, lockRatio bool, ratio float32) Rect {
	x0, y0, x1, y1 := baseline.Edges()

	switch h {
	case HandleN:
		y0 = cursor.Y
	case HandleS:
		y1 = cursor.Y
	case HandleW:
		x0 = cursor.X
	case HandleE:
		x1 = cursor.X
	case HandleNW, HandleNE, HandleSE, HandleSW:
		if lockRatio {
			anchor := h.Anchor(baseline)
			end := ProjectAspect(anchor, cursor, ratio, imgW, imgH)
			x0, y0, x1, y1 = anchor.X, anchor.Y, end.X, end.Y
		} else {
			switch h {
			case HandleNW:
				x0, y0 = cursor.X, cursor.Y
			case HandleNE:
				x1, y0 = cursor.X, cursor.Y
			case HandleSE:
				x1, y1 = cursor.X, cursor.Y
			case HandleSW:
				x0, y1 = cursor.X, cursor.Y
			}
		}
	default:
		return baseline
	}

	x0, x1 = expandSpan(x0, x1, MinSelectionSize)
	y0, y1 = expandSpan(y0, y1, MinSelectionSize)
	return RectFromEdges(x0, y0, x1, y1).ClampToBox(imgW, imgH, MinSelectionSize)
}

// expandSpan grows the span [a,b] (in either order) to at least min,
// symmetrically around its midpoint.
func expandSpan(a, b, min float32) (float32, float32) {
	if math32.Abs(b-a) >= min {
		return a, b
	}
	mid := (a + b) / 2
	if b < a {
		return mid + min/2, mid - min/2
	}
	return mid - min/2, mid + min/2
}

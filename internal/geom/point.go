// Package geom holds the selection geometry: rectangles, resize handles,
// display-to-image coordinate mapping and the aspect-locked projection used
// while a corner handle is dragged. Everything operates on float32 so the
// math stays exact-enough under arbitrary zoom without committing to pixel
// grids too early; integer rounding happens once, at submission time.
package geom

// ScreenPoint is a position in display space, i.e. window pixels where the
// preview is currently painted.
type ScreenPoint struct {
	X, Y float32
}

// ImagePoint is a position in source-image pixel space, origin top-left.
//
// ScreenPoint and ImagePoint are deliberately distinct types so the two
// coordinate systems cannot be mixed up silently; DrawBox.ToImageSpace is
// the only conversion between them.
type ImagePoint struct {
	X, Y float32
}

package geom

import "github.com/chewxy/math32"

// DrawBox is the rectangle in display space where the image is currently
// painted. The selection core never computes it; the window host derives it
// every frame (see FitDrawBox) and hands it in.
type DrawBox struct {
	X, Y, W, H float32
}

// Contains reports whether the pointer position lies inside the draw box.
// It decides whether the selection core claims a pointer-down at all.
func (b DrawBox) Contains(p ScreenPoint) bool {
	return p.X >= b.X && p.X <= b.X+b.W && p.Y >= b.Y && p.Y <= b.Y+b.H
}

// ToImageSpace converts a pointer position to image pixels. The position is
// clamped into the draw box first, so even events reported outside the box
// (fast drags past the edge) map to a point inside [0,imgW] x [0,imgH].
// scale is the uniform drawW/imgW factor.
func (b DrawBox) ToImageSpace(p ScreenPoint, scale float32) ImagePoint {
	x := math32.Min(math32.Max(p.X-b.X, 0), b.W)
	y := math32.Min(math32.Max(p.Y-b.Y, 0), b.H)
	return ImagePoint{X: x / scale, Y: y / scale}
}

// ToScreenSpace converts an image point back to display space. Used by the
// renderer to place the selection and its handles.
func (b DrawBox) ToScreenSpace(p ImagePoint, scale float32) ScreenPoint {
	return ScreenPoint{X: b.X + p.X*scale, Y: b.Y + p.Y*scale}
}

// FitDrawBox lays the image out inside avail: fit to the available width
// with the aspect ratio preserved, shrinking further if the derived height
// would not fit. The returned scale is drawW/imgW, which equals drawH/imgH
// because the height is always derived from the width.
func FitDrawBox(imgW, imgH float32, avail DrawBox) (DrawBox, float32) {
	if imgW <= 0 || imgH <= 0 || avail.W <= 0 || avail.H <= 0 {
		return DrawBox{X: avail.X, Y: avail.Y}, 1
	}
	scale := avail.W / imgW
	if imgH*scale > avail.H {
		scale = avail.H / imgH
	}
	return DrawBox{X: avail.X, Y: avail.Y, W: imgW * scale, H: imgH * scale}, scale
}

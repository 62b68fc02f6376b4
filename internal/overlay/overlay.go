// Package overlay paints what the session publishes: the scaled preview,
// the dashed selection rectangle and its grab handles, plus the shortcut
// hint bar. It is a pure consumer of session.Frame and never touches the
// geometry.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/cropgate/internal/geom"
	"github.com/example/cropgate/internal/session"
)

// HintBarHeight is the height of the shortcut bar at the bottom of the
// window, in pixels.
const HintBarHeight = 24

// handleDrawHalf is half the painted size of a handle box. It matches the
// hit-test half-width so what you see is what you can grab.
const handleDrawHalf = 4

// Style holds the overlay colors, normally loaded from configuration.
type Style struct {
	Background     color.RGBA
	SelectionLight color.RGBA
	SelectionDark  color.RGBA
	HandleFill     color.RGBA
	HandleBorder   color.RGBA
	BarBackground  color.RGBA
}

// DefaultStyle returns the built-in colors.
func DefaultStyle() Style {
	return Style{
		Background:     color.RGBA{32, 32, 32, 255},
		SelectionLight: color.RGBA{255, 255, 255, 255},
		SelectionDark:  color.RGBA{0, 0, 0, 255},
		HandleFill:     color.RGBA{255, 255, 255, 255},
		HandleBorder:   color.RGBA{0, 0, 0, 255},
		BarBackground:  color.RGBA{220, 220, 220, 255},
	}
}

// Draw renders f into dst.
func Draw(dst *image.RGBA, f session.Frame, st Style) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{st.Background}, image.Point{}, draw.Src)

	if f.Image == nil {
		d := &font.Drawer{Dst: dst, Src: image.White, Face: basicfont.Face7x13}
		msg := "Waiting for a crop request..."
		w := d.MeasureString(msg).Ceil()
		d.Dot = fixed.P((dst.Bounds().Dx()-w)/2, dst.Bounds().Dy()/2)
		d.DrawString(msg)
		return
	}

	box := screenRect(f.DrawBox)
	xdraw.NearestNeighbor.Scale(dst, box, f.Image, f.Image.Bounds(), draw.Over, nil)

	if f.Rect == nil {
		return
	}

	sel := selectionScreenRect(*f.Rect, f.DrawBox, f.Scale)
	drawDashedRect(dst, sel, 4, 2, st.SelectionLight, st.SelectionDark)
	for _, hp := range geom.HandlesOf(*f.Rect) {
		sp := f.DrawBox.ToScreenSpace(hp.Point, f.Scale)
		hr := image.Rect(int(sp.X)-handleDrawHalf, int(sp.Y)-handleDrawHalf,
			int(sp.X)+handleDrawHalf, int(sp.Y)+handleDrawHalf)
		draw.Draw(dst, hr, &image.Uniform{st.HandleFill}, image.Point{}, draw.Src)
		drawRect(dst, hr, st.HandleBorder)
	}
}

// DrawHints renders the shortcut bar along the bottom edge of dst.
func DrawHints(dst *image.RGBA, hints []string, st Style) {
	b := dst.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-HintBarHeight, b.Max.X, b.Max.Y)
	draw.Draw(dst, bar, &image.Uniform{st.BarBackground}, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: dst, Src: image.Black, Face: basicfont.Face7x13}
	x := bar.Min.X + 4
	y := bar.Min.Y + 16
	for _, h := range hints {
		d.Dot = fixed.P(x, y)
		d.DrawString(h)
		x += d.MeasureString(h).Ceil() + 16
	}
}

func screenRect(b geom.DrawBox) image.Rectangle {
	return image.Rect(int(b.X), int(b.Y), int(b.X+b.W), int(b.Y+b.H))
}

func selectionScreenRect(r geom.Rect, b geom.DrawBox, scale float32) image.Rectangle {
	min := b.ToScreenSpace(geom.ImagePoint{X: r.X, Y: r.Y}, scale)
	max := b.ToScreenSpace(geom.ImagePoint{X: r.X + r.W, Y: r.Y + r.H}, scale)
	return image.Rect(int(min.X), int(min.Y), int(max.X), int(max.Y))
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col)
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.Set(x0, y0, col)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thickness int, c1, c2 color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	if length < 0 {
		length = -length
	}
	set := func(i int, col color.Color) {
		for t := 0; t < thickness; t++ {
			var p image.Point
			if horiz {
				if x0 < x1 {
					p = image.Pt(x0+i, y0+t)
				} else {
					p = image.Pt(x0-i, y0+t)
				}
			} else {
				if y0 < y1 {
					p = image.Pt(x0+t, y0+i)
				} else {
					p = image.Pt(x0+t, y0-i)
				}
			}
			if p.In(img.Bounds()) {
				img.Set(p.X, p.Y, col)
			}
		}
	}
	for i := 0; i <= length; i += dash * 2 {
		for j := 0; j < dash && i+j <= length; j++ {
			set(i+j, c1)
		}
		for j := 0; j < dash && i+dash+j <= length; j++ {
			set(i+dash+j, c2)
		}
	}
}

func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	drawDashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, dash, thickness, c1, c2)
	drawDashedLine(img, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, dash, thickness, c1, c2)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

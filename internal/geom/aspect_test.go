package geom

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestProjectAspectUnclamped(t *testing.T) {
	// Ratio 2, anchor at origin, cursor at (100,20): the height-driven
	// branch wins (100/2=50 > 20) and the endpoint is (40,20).
	end := ProjectAspect(ImagePoint{0, 0}, ImagePoint{100, 20}, 2, 1000, 1000)
	assert.InDelta(t, 40, end.X, 1e-4)
	assert.InDelta(t, 20, end.Y, 1e-4)
}

func TestProjectAspectWidthDriven(t *testing.T) {
	// Cursor at (100,80): 100/2=50 <= 80, so the width drives and the
	// height is derived.
	end := ProjectAspect(ImagePoint{0, 0}, ImagePoint{100, 80}, 2, 1000, 1000)
	assert.InDelta(t, 100, end.X, 1e-4)
	assert.InDelta(t, 50, end.Y, 1e-4)
}

func TestProjectAspectReprojectsAfterClamp(t *testing.T) {
	// Same drag as TestProjectAspectUnclamped but the box is only 30 wide:
	// the clamp pins x at 30 and the reprojection pulls y back to 15 so
	// the ratio stays exactly 2.
	end := ProjectAspect(ImagePoint{0, 0}, ImagePoint{100, 20}, 2, 30, 1000)
	assert.InDelta(t, 30, end.X, 1e-4)
	assert.InDelta(t, 15, end.Y, 1e-4)
}

func TestProjectAspectNegativeDirection(t *testing.T) {
	end := ProjectAspect(ImagePoint{200, 100}, ImagePoint{100, 20}, 2, 800, 600)
	assert.Less(t, end.X, float32(200))
	assert.Less(t, end.Y, float32(100))
	ratio := math32.Abs(end.X-200) / math32.Abs(end.Y-100)
	assert.InDelta(t, 2, ratio, 1e-3)
}

func TestProjectAspectProperty(t *testing.T) {
	// For a grid of anchors, cursors and ratios: the endpoint is always in
	// bounds, and whenever the cursor itself is in bounds (the coordinate
	// mapper guarantees that for live drags) the span matches the ratio
	// within relative tolerance.
	const boxW, boxH = 800, 600
	ratios := []float32{0.5, 1, 4.0 / 3.0, 2}
	anchors := []ImagePoint{{0, 0}, {800, 600}, {400, 300}, {100, 500}}
	for _, r := range ratios {
		for _, a := range anchors {
			for cx := float32(-100); cx <= 900; cx += 125 {
				for cy := float32(-100); cy <= 700; cy += 100 {
					end := ProjectAspect(a, ImagePoint{cx, cy}, r, boxW, boxH)
					assert.GreaterOrEqual(t, end.X, float32(0))
					assert.LessOrEqual(t, end.X, float32(boxW))
					assert.GreaterOrEqual(t, end.Y, float32(0))
					assert.LessOrEqual(t, end.Y, float32(boxH))

					inBounds := cx >= 0 && cx <= boxW && cy >= 0 && cy <= boxH
					w := math32.Abs(end.X - a.X)
					h := math32.Abs(end.Y - a.Y)
					if inBounds && w > 1e-3 && h > 1e-3 {
						assert.InEpsilon(t, r, w/h, 1e-3,
							"ratio %v anchor %+v cursor (%v,%v)", r, a, cx, cy)
					}
				}
			}
		}
	}
}

func TestResizeEdgeHandlesIgnoreAspectLock(t *testing.T) {
	base := Rect{X: 100, Y: 100, W: 200, H: 100}
	// Dragging the south edge with the lock on still moves only that edge.
	got := Resize(base, HandleS, ImagePoint{500, 350}, 800, 600, true, 2)
	assert.Equal(t, Rect{X: 100, Y: 100, W: 200, H: 250}, got)

	got = Resize(base, HandleE, ImagePoint{400, 999}, 800, 600, false, 0)
	assert.Equal(t, Rect{X: 100, Y: 100, W: 300, H: 100}, got)
}

func TestResizeEdgeCrossesOpposite(t *testing.T) {
	base := Rect{X: 100, Y: 100, W: 200, H: 100}
	// Dragging the west edge past the east edge flips the rectangle.
	got := Resize(base, HandleW, ImagePoint{350, 0}, 800, 600, false, 0)
	assert.Equal(t, Rect{X: 300, Y: 100, W: 50, H: 100}, got)
}

func TestResizeCornerFree(t *testing.T) {
	base := Rect{X: 100, Y: 100, W: 200, H: 100}
	got := Resize(base, HandleSE, ImagePoint{400, 300}, 800, 600, false, 0)
	assert.Equal(t, Rect{X: 100, Y: 100, W: 300, H: 200}, got)

	got = Resize(base, HandleNW, ImagePoint{50, 60}, 800, 600, false, 0)
	assert.Equal(t, Rect{X: 50, Y: 60, W: 250, H: 140}, got)
}

func TestResizeCornerAspectLocked(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 100, H: 50}
	// se drag anchored at nw corner (0,0), cursor (100,20), ratio 2:
	// projection gives (40,20).
	got := Resize(base, HandleSE, ImagePoint{100, 20}, 800, 600, true, 2)
	assert.InDelta(t, 0, got.X, 1e-4)
	assert.InDelta(t, 0, got.Y, 1e-4)
	assert.InDelta(t, 40, got.W, 1e-4)
	assert.InDelta(t, 20, got.H, 1e-4)
}

func TestResizeCornerAspectLockedClamped(t *testing.T) {
	base := Rect{X: 0, Y: 0, W: 10, H: 5}
	got := Resize(base, HandleSE, ImagePoint{100, 20}, 30, 600, true, 2)
	assert.InDelta(t, 30, got.W, 1e-4)
	assert.InDelta(t, 15, got.H, 1e-4)
	assert.InDelta(t, 2, got.W/got.H, 1e-3)
}

func TestResizeEnforcesMinimumSize(t *testing.T) {
	base := Rect{X: 100, Y: 100, W: 200, H: 100}
	// Collapse the east edge onto the west edge: the span expands
	// symmetrically around the midpoint instead of vanishing.
	got := Resize(base, HandleE, ImagePoint{100, 150}, 800, 600, false, 0)
	assert.Equal(t, float32(MinSelectionSize), got.W)
	assert.InDelta(t, 99, got.X, 1e-4)
	assert.Equal(t, float32(100), got.H)
}

func TestResizeStaysInBounds(t *testing.T) {
	base := Rect{X: 700, Y: 500, W: 80, H: 80}
	got := Resize(base, HandleSE, ImagePoint{4000, 4000}, 800, 600, false, 0)
	assert.LessOrEqual(t, got.X+got.W, float32(800))
	assert.LessOrEqual(t, got.Y+got.H, float32(600))
}

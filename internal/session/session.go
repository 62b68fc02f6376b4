// Package session implements the decision lifecycle for one pause-for-crop
// request: pending until the preview loads, then ready for interaction, then
// submitted once exactly one decision has gone out.
package session

import (
	"image"
	"image/draw"
	"log"

	"github.com/chewxy/math32"

	"github.com/example/cropgate/internal/drag"
	"github.com/example/cropgate/internal/geom"
)

// Action is the decision sent back to the server.
type Action string

const (
	ActionContinue    Action = "continue"
	ActionPassthrough Action = "passthrough"
	ActionCancel      Action = "cancel"
)

// Bounds are integer-rounded selection edges in image-pixel space, present
// only for ActionContinue.
type Bounds struct {
	X0, Y0, X1, Y1 int
}

// Submitter delivers a decision to the server. Transport failures are its
// problem; by the time it runs the session is already submitted, so a
// failed call never re-enters interactive state.
type Submitter interface {
	SubmitDecision(promptID, nodeID string, action Action, rect *Bounds) error
}

// State is the lifecycle position of a session.
type State int

const (
	// StatePending means the request arrived but the preview image has
	// not loaded yet; interaction is not permitted.
	StatePending State = iota
	// StateReady means the image is loaded and the user may select and
	// decide.
	StateReady
	// StateSubmitted means a decision went out; the session is inert.
	StateSubmitted
)

// Frame is what the session publishes for the renderer each frame. The
// renderer paints it and nothing else; all geometry lives here.
type Frame struct {
	Image   *image.RGBA
	DrawBox geom.DrawBox
	Scale   float32
	Rect    *geom.Rect
	Handles []geom.HandlePoint
}

// Session is the lifecycle of one crop request, from arrival to decision.
type Session struct {
	PromptID   string
	NodeID     string
	ForceRatio bool

	state     State
	selected  func() bool
	submitter Submitter
	drag      *drag.Session

	img     *image.RGBA
	imgW    int
	imgH    int
	drawBox geom.DrawBox
	scale   float32
}

// New creates a pending session. width/height are the sizes announced in the
// request; they are re-read from the actual image on AttachImage. selected
// reports whether this session's target currently has host focus; pointer
// input is ignored without it.
func New(promptID, nodeID string, width, height int, forceRatio bool, lock *drag.Lock, submitter Submitter, selected func() bool) *Session {
	if selected == nil {
		selected = func() bool { return true }
	}
	return &Session{
		PromptID:   promptID,
		NodeID:     nodeID,
		ForceRatio: forceRatio,
		selected:   selected,
		submitter:  submitter,
		imgW:       width,
		imgH:       height,
		drag:       drag.NewSession(promptID+"/"+nodeID, float32(width), float32(height), forceRatio, lock),
		scale:      1,
	}
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Image returns the loaded preview, or nil while pending.
func (s *Session) Image() *image.RGBA { return s.img }

// Size returns the current image dimensions in pixels.
func (s *Session) Size() (int, int) { return s.imgW, s.imgH }

// AttachImage supplies the loaded preview and moves the session from
// pending to ready. Attaching twice or after submission is ignored.
func (s *Session) AttachImage(img *image.RGBA) {
	if s.state != StatePending || img == nil {
		return
	}
	s.img = img
	s.imgW = img.Bounds().Dx()
	s.imgH = img.Bounds().Dy()
	s.drag.SetImageSize(float32(s.imgW), float32(s.imgH))
	s.state = StateReady
}

// SetDrawBox records where the host painted the image this frame. The
// session never derives the layout itself.
func (s *Session) SetDrawBox(b geom.DrawBox, scale float32) {
	s.drawBox = b
	if scale > 0 {
		s.scale = scale
	}
}

// Frame returns the current render state.
func (s *Session) Frame() Frame {
	f := Frame{Image: s.img, DrawBox: s.drawBox, Scale: s.scale}
	if r := s.drag.Rect(); r != nil {
		f.Rect = r
		f.Handles = geom.HandlesOf(*r)
	}
	return f
}

// interactive reports whether pointer input is currently accepted.
func (s *Session) interactive() bool {
	return s.state == StateReady && s.selected()
}

// PointerDown claims a press at p if the session is interactive and the
// press is inside the draw box. It reports whether the event was claimed.
func (s *Session) PointerDown(p geom.ScreenPoint) bool {
	if !s.interactive() || !s.drawBox.Contains(p) {
		return false
	}
	s.drag.PointerDown(s.drawBox.ToImageSpace(p, s.scale))
	return true
}

// PointerMove advances an active drag. Selection loss mid-drag cancels it,
// as does a move reporting the primary button up.
func (s *Session) PointerMove(p geom.ScreenPoint, primaryHeld bool) {
	if s.drag.Mode() == drag.ModeNone {
		return
	}
	if s.state != StateReady || !s.selected() {
		s.drag.PointerMove(geom.ImagePoint{}, false)
		return
	}
	s.drag.PointerMove(s.drawBox.ToImageSpace(p, s.scale), primaryHeld)
}

// PointerUp ends an active drag.
func (s *Session) PointerUp() {
	s.drag.PointerUp()
}

// SelectionBounds returns the integer-rounded selection edges, or nil if no
// selection of at least the minimum size exists.
func (s *Session) SelectionBounds() *Bounds {
	r := s.drag.Rect()
	if r == nil || r.W < geom.MinSelectionSize || r.H < geom.MinSelectionSize {
		return nil
	}
	return &Bounds{
		X0: int(math32.Round(r.X)),
		Y0: int(math32.Round(r.Y)),
		X1: int(math32.Round(r.X + r.W)),
		Y1: int(math32.Round(r.Y + r.H)),
	}
}

// Decide sends one decision and retires the session. A continue without a
// valid selection degrades to passthrough. The submitted state is set before
// the outbound call so rapid repeated input cannot double-submit; the
// submission itself runs asynchronously and only logs on failure.
func (s *Session) Decide(action Action) {
	if s.state != StateReady {
		return
	}

	var rect *Bounds
	switch action {
	case ActionContinue:
		rect = s.SelectionBounds()
		if rect == nil {
			action = ActionPassthrough
		}
	case ActionPassthrough, ActionCancel:
	default:
		return
	}

	s.state = StateSubmitted
	s.drag.PointerUp()

	if s.submitter != nil {
		promptID, nodeID := s.PromptID, s.NodeID
		sub := s.submitter
		r := rect
		go func() {
			if err := sub.SubmitDecision(promptID, nodeID, action, r); err != nil {
				log.Printf("submit %s for %s/%s: %v", action, promptID, nodeID, err)
			}
		}()
	}

	if action == ActionContinue && rect != nil {
		s.applyPreviewCrop(*rect)
	}
}

// applyPreviewCrop swaps the displayed image for the locally cropped region
// and clears the selection. Purely user feedback; the authoritative crop
// happens on the server.
func (s *Session) applyPreviewCrop(b Bounds) {
	if s.img == nil || b.X1 <= b.X0 || b.Y1 <= b.Y0 {
		return
	}
	src := image.Rect(b.X0, b.Y0, b.X1, b.Y1).Intersect(s.img.Bounds())
	if src.Empty() {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
	draw.Draw(out, out.Bounds(), s.img, src.Min, draw.Src)
	s.img = out
	s.imgW = src.Dx()
	s.imgH = src.Dy()
	s.drag.SetImageSize(float32(s.imgW), float32(s.imgH))
	s.drag.ClearRect()
}

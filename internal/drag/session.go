package drag

import "github.com/example/cropgate/internal/geom"

// Mode is the current interaction of a drag session.
type Mode int

const (
	ModeNone Mode = iota
	ModeCreating
	ModeMoving
	ModeResizing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeMoving:
		return "moving"
	case ModeResizing:
		return "resizing"
	}
	return "none"
}

// Session is the per-target drag state machine. All methods take image-space
// points; the caller maps pointer positions through the draw box first and
// gates pointer-down on draw-box containment and target selection.
//
// Sessions are driven from a single event loop; they are not safe for
// concurrent use (the shared Lock is).
type Session struct {
	id     string
	lock   *Lock
	imgW   float32
	imgH   float32
	locked bool    // aspect lock on corner resizes
	ratio  float32 // width/height when locked

	mode       Mode
	handle     geom.Handle
	baseline   geom.Rect // rectangle snapshot when a resize starts
	moveOffset geom.ImagePoint
	start      geom.ImagePoint

	rect    geom.Rect
	hasRect bool
}

// NewSession creates a drag session for an image of the given size. When
// forceRatio is set, corner resizes and creation keep the selection at the
// image's own width/height ratio.
func NewSession(id string, imgW, imgH float32, forceRatio bool, lock *Lock) *Session {
	s := &Session{id: id, lock: lock, locked: forceRatio}
	s.SetImageSize(imgW, imgH)
	return s
}

// SetImageSize updates the bounds the selection is clamped into (used when
// the preview is swapped). Any existing rectangle is re-clamped.
func (s *Session) SetImageSize(imgW, imgH float32) {
	s.imgW = imgW
	s.imgH = imgH
	if s.locked && imgH > 0 {
		s.ratio = imgW / imgH
	}
	if s.hasRect {
		s.rect = s.rect.ClampToBox(s.imgW, s.imgH, geom.MinSelectionSize)
	}
}

// Mode returns the current interaction mode.
func (s *Session) Mode() Mode { return s.mode }

// Rect returns the current selection, or nil if none exists.
func (s *Session) Rect() *geom.Rect {
	if !s.hasRect {
		return nil
	}
	r := s.rect
	return &r
}

// ClearRect discards the selection and any drag in progress.
func (s *Session) ClearRect() {
	s.hasRect = false
	if s.mode != ModeNone {
		s.lock.Release(s.id)
	}
}

// PointerDown starts a drag at p: grabbing a handle resizes, pressing inside
// the rectangle moves it, anywhere else starts a fresh selection. Any drag
// live elsewhere is force-released first via the shared lock.
func (s *Session) PointerDown(p geom.ImagePoint) {
	s.lock.Acquire(s.id, s.endDrag)

	if s.hasRect {
		if h := geom.HitTestHandle(p, s.rect); h != geom.HandleNone {
			s.mode = ModeResizing
			s.handle = h
			s.baseline = s.rect
			return
		}
		if s.rect.Contains(p) {
			s.mode = ModeMoving
			s.moveOffset = geom.ImagePoint{X: p.X - s.rect.X, Y: p.Y - s.rect.Y}
			return
		}
	}

	s.mode = ModeCreating
	s.start = p
	s.rect = geom.Rect{X: p.X, Y: p.Y}.ClampToBox(s.imgW, s.imgH, geom.MinSelectionSize)
	s.hasRect = true
}

// PointerMove advances the active drag to p. primaryHeld is the host's view
// of the primary button; some environments drop release events, so a move
// without the button held ends the drag instead of continuing it.
func (s *Session) PointerMove(p geom.ImagePoint, primaryHeld bool) {
	if s.mode == ModeNone {
		return
	}
	if !primaryHeld {
		s.lock.Release(s.id)
		return
	}

	switch s.mode {
	case ModeCreating:
		if s.locked {
			end := geom.ProjectAspect(s.start, p, s.ratio, s.imgW, s.imgH)
			s.rect = geom.RectFromPoints(s.start, end)
		} else {
			s.rect = geom.RectFromPoints(s.start, p)
		}
		s.rect = s.rect.ClampToBox(s.imgW, s.imgH, geom.MinSelectionSize)
	case ModeMoving:
		s.rect.X = clamp(p.X-s.moveOffset.X, 0, s.imgW-s.rect.W)
		s.rect.Y = clamp(p.Y-s.moveOffset.Y, 0, s.imgH-s.rect.H)
	case ModeResizing:
		s.rect = geom.Resize(s.baseline, s.handle, p, s.imgW, s.imgH, s.locked, s.ratio)
	}
}

// PointerUp ends the drag normally.
func (s *Session) PointerUp() {
	if s.mode == ModeNone {
		return
	}
	s.lock.Release(s.id)
}

// endDrag resets transient drag state. It is the lock's release callback, so
// it must not touch the lock itself.
func (s *Session) endDrag() {
	s.mode = ModeNone
	s.handle = geom.HandleNone
	s.baseline = geom.Rect{}
	s.moveOffset = geom.ImagePoint{}
	s.start = geom.ImagePoint{}
}

func clamp(v, lo, hi float32) float32 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

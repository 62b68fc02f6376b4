package session

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/cropgate/internal/drag"
	"github.com/example/cropgate/internal/geom"
)

type decision struct {
	promptID string
	nodeID   string
	action   Action
	rect     *Bounds
}

type fakeSubmitter struct {
	ch chan decision
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{ch: make(chan decision, 4)}
}

func (f *fakeSubmitter) SubmitDecision(promptID, nodeID string, action Action, rect *Bounds) error {
	f.ch <- decision{promptID, nodeID, action, rect}
	return nil
}

func (f *fakeSubmitter) wait(t *testing.T) decision {
	t.Helper()
	select {
	case d := <-f.ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("no decision submitted")
		return decision{}
	}
}

func (f *fakeSubmitter) none(t *testing.T) {
	t.Helper()
	select {
	case d := <-f.ch:
		t.Fatalf("unexpected decision %+v", d)
	case <-time.After(50 * time.Millisecond):
	}
}

func readySession(sub Submitter) *Session {
	s := New("p1", "n7", 800, 600, false, drag.NewLock(), sub, nil)
	s.AttachImage(image.NewRGBA(image.Rect(0, 0, 800, 600)))
	s.SetDrawBox(geom.DrawBox{X: 0, Y: 0, W: 800, H: 600}, 1)
	return s
}

func dragSelection(s *Session, from, to geom.ScreenPoint) {
	s.PointerDown(from)
	s.PointerMove(to, true)
	s.PointerUp()
}

func TestContinueWithoutSelectionDegradesToPassthrough(t *testing.T) {
	sub := newFakeSubmitter()
	s := readySession(sub)

	s.Decide(ActionContinue)
	d := sub.wait(t)
	assert.Equal(t, ActionPassthrough, d.action)
	assert.Nil(t, d.rect)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestContinueCarriesRoundedBounds(t *testing.T) {
	sub := newFakeSubmitter()
	s := readySession(sub)

	dragSelection(s, geom.ScreenPoint{X: 100, Y: 100}, geom.ScreenPoint{X: 300, Y: 250})
	s.Decide(ActionContinue)

	d := sub.wait(t)
	assert.Equal(t, ActionContinue, d.action)
	assert.Equal(t, "p1", d.promptID)
	assert.Equal(t, "n7", d.nodeID)
	if assert.NotNil(t, d.rect) {
		assert.Equal(t, Bounds{X0: 100, Y0: 100, X1: 300, Y1: 250}, *d.rect)
	}
}

func TestContinueBoundsAtHalfScale(t *testing.T) {
	sub := newFakeSubmitter()
	s := New("p1", "n7", 800, 600, false, drag.NewLock(), sub, nil)
	s.AttachImage(image.NewRGBA(image.Rect(0, 0, 800, 600)))
	// Draw at half scale so image coordinates land between pixels.
	s.SetDrawBox(geom.DrawBox{X: 0, Y: 0, W: 400, H: 300}, 0.5)

	dragSelection(s, geom.ScreenPoint{X: 51, Y: 51}, geom.ScreenPoint{X: 150, Y: 150})
	s.Decide(ActionContinue)

	d := sub.wait(t)
	if assert.NotNil(t, d.rect) {
		assert.Equal(t, Bounds{X0: 102, Y0: 102, X1: 300, Y1: 300}, *d.rect)
	}
}

func TestDoubleSubmissionIgnored(t *testing.T) {
	sub := newFakeSubmitter()
	s := readySession(sub)

	s.Decide(ActionPassthrough)
	sub.wait(t)

	s.Decide(ActionContinue)
	s.Decide(ActionCancel)
	sub.none(t)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestCancelIgnoresSelectionState(t *testing.T) {
	sub := newFakeSubmitter()
	s := readySession(sub)

	dragSelection(s, geom.ScreenPoint{X: 10, Y: 10}, geom.ScreenPoint{X: 90, Y: 90})
	s.Decide(ActionCancel)

	d := sub.wait(t)
	assert.Equal(t, ActionCancel, d.action)
	assert.Nil(t, d.rect)
}

func TestDecideWhilePendingIgnored(t *testing.T) {
	sub := newFakeSubmitter()
	s := New("p1", "n7", 800, 600, false, drag.NewLock(), sub, nil)

	s.Decide(ActionContinue)
	sub.none(t)
	assert.Equal(t, StatePending, s.State())
}

func TestPointerIgnoredWhilePending(t *testing.T) {
	s := New("p1", "n7", 800, 600, false, drag.NewLock(), nil, nil)
	s.SetDrawBox(geom.DrawBox{X: 0, Y: 0, W: 800, H: 600}, 1)

	assert.False(t, s.PointerDown(geom.ScreenPoint{X: 100, Y: 100}))
	assert.Nil(t, s.Frame().Rect)
}

func TestPointerIgnoredOutsideDrawBox(t *testing.T) {
	sub := newFakeSubmitter()
	s := readySession(sub)
	s.SetDrawBox(geom.DrawBox{X: 100, Y: 100, W: 200, H: 150}, 0.25)

	assert.False(t, s.PointerDown(geom.ScreenPoint{X: 50, Y: 50}))
	assert.True(t, s.PointerDown(geom.ScreenPoint{X: 150, Y: 150}))
}

func TestPreviewSwapAfterContinue(t *testing.T) {
	sub := newFakeSubmitter()
	s := readySession(sub)

	dragSelection(s, geom.ScreenPoint{X: 100, Y: 100}, geom.ScreenPoint{X: 300, Y: 250})
	s.Decide(ActionContinue)
	sub.wait(t)

	w, h := s.Size()
	assert.Equal(t, 200, w)
	assert.Equal(t, 150, h)
	assert.Nil(t, s.Frame().Rect, "selection cleared after preview swap")
	if assert.NotNil(t, s.Image()) {
		assert.Equal(t, 200, s.Image().Bounds().Dx())
	}
}

func TestFramePublishesHandles(t *testing.T) {
	sub := newFakeSubmitter()
	s := readySession(sub)

	dragSelection(s, geom.ScreenPoint{X: 100, Y: 100}, geom.ScreenPoint{X: 300, Y: 300})
	f := s.Frame()
	if assert.NotNil(t, f.Rect) {
		assert.Len(t, f.Handles, 8)
		assert.Equal(t, geom.HandleNW, f.Handles[0].Handle)
		assert.Equal(t, geom.ImagePoint{X: 100, Y: 100}, f.Handles[0].Point)
	}
	assert.Equal(t, float32(1), f.Scale)
}

func TestSelectionLossCancelsDrag(t *testing.T) {
	selected := true
	s := New("p1", "n7", 800, 600, false, drag.NewLock(), nil, func() bool { return selected })
	s.AttachImage(image.NewRGBA(image.Rect(0, 0, 800, 600)))
	s.SetDrawBox(geom.DrawBox{X: 0, Y: 0, W: 800, H: 600}, 1)

	s.PointerDown(geom.ScreenPoint{X: 100, Y: 100})
	s.PointerMove(geom.ScreenPoint{X: 200, Y: 200}, true)

	selected = false
	s.PointerMove(geom.ScreenPoint{X: 400, Y: 400}, true)

	f := s.Frame()
	if assert.NotNil(t, f.Rect) {
		assert.Equal(t, geom.Rect{X: 100, Y: 100, W: 100, H: 100}, *f.Rect)
	}
}

func TestManagerDropsMalformedRequests(t *testing.T) {
	m := NewManager(drag.NewLock(), nil)

	assert.Nil(t, m.Handle(Request{NodeID: "n", Width: 10, Height: 10}))
	assert.Nil(t, m.Handle(Request{PromptID: "p", Width: 10, Height: 10}))
	assert.Nil(t, m.Handle(Request{PromptID: "p", NodeID: "n", Height: 10}))
	assert.Equal(t, 0, m.Len())
}

func TestManagerCurrentFollowsLatestRequest(t *testing.T) {
	m := NewManager(drag.NewLock(), nil)

	a := m.Handle(Request{PromptID: "p", NodeID: "1", Width: 800, Height: 600})
	b := m.Handle(Request{PromptID: "p", NodeID: "2", Width: 400, Height: 300})
	assert.Same(t, b, m.Current())

	// The older session lost host selection and ignores input.
	a.AttachImage(image.NewRGBA(image.Rect(0, 0, 800, 600)))
	a.SetDrawBox(geom.DrawBox{W: 800, H: 600}, 1)
	assert.False(t, a.PointerDown(geom.ScreenPoint{X: 10, Y: 10}))
}

func TestManagerReplaceSameKey(t *testing.T) {
	m := NewManager(drag.NewLock(), nil)

	a := m.Handle(Request{PromptID: "p", NodeID: "1", Width: 800, Height: 600})
	b := m.Handle(Request{PromptID: "p", NodeID: "1", Width: 800, Height: 600})
	assert.NotSame(t, a, b)
	assert.Equal(t, 1, m.Len())
	assert.Same(t, b, m.Current())
}

func TestManagerForceReleaseIsSafeWhenIdle(t *testing.T) {
	m := NewManager(drag.NewLock(), nil)
	m.ForceRelease()
	m.ForceRelease()
	assert.Equal(t, 0, m.Len())
}

func TestManagerDrop(t *testing.T) {
	m := NewManager(drag.NewLock(), nil)
	s := m.Handle(Request{PromptID: "p", NodeID: "1", Width: 800, Height: 600})
	assert.NotNil(t, s)

	m.Drop(Key{PromptID: "p", NodeID: "1"})
	assert.Nil(t, m.Current())
	assert.Equal(t, 0, m.Len())
}

// Command cropgate is a desktop client for pause-for-crop points in an image
// pipeline. It sits on the server's event stream; when a workflow pauses for
// a crop it shows the preview, lets the user drag a selection, and posts the
// decision back so the workflow resumes.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"time"

	"golang.design/x/clipboard"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/cropgate/internal/comfy"
	"github.com/example/cropgate/internal/config"
	"github.com/example/cropgate/internal/drag"
	"github.com/example/cropgate/internal/geom"
	"github.com/example/cropgate/internal/notify"
	"github.com/example/cropgate/internal/overlay"
	"github.com/example/cropgate/internal/session"
)

// Version is overridden at build time.
var Version = "dev"

const (
	defaultWidth  = 1024
	defaultHeight = 768
)

var hints = []string{
	"Enter - Continue",
	"P - Passthrough",
	"Esc - Cancel",
	"C - Copy bounds",
	"Q - Quit",
}

// requestEvent carries an inbound crop request onto the window's event loop.
type requestEvent struct {
	req comfy.CropRequest
}

// previewEvent carries a fetched preview image onto the window's event loop.
type previewEvent struct {
	target *session.Session
	img    *image.RGBA
}

func main() {
	server := flag.String("server", "", "pipeline server address (host:port)")
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	cfg, err := config.NewLoader(Version, *configPath).Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *server != "" {
		cfg.Server = *server
	}

	client := comfy.NewClient(cfg.Server)

	notifier := notify.New(notify.LoadPreferences())
	notifier.Enable(notify.EventRequest, cfg.Notify.Request)
	notifier.Enable(notify.EventDecision, cfg.Notify.Decision)

	style := overlay.DefaultStyle()
	style.SelectionLight = cfg.Overlay.SelectionLight
	style.SelectionDark = cfg.Overlay.SelectionDark
	style.HandleFill = cfg.Overlay.HandleFill
	style.HandleBorder = cfg.Overlay.HandleBorder

	driver.Main(func(s screen.Screen) {
		if err := clipboard.Init(); err != nil {
			log.Printf("clipboard init: %v", err)
		}

		w, err := s.NewWindow(&screen.NewWindowOptions{
			Width:  defaultWidth,
			Height: defaultHeight,
			Title:  "cropgate",
		})
		if err != nil {
			log.Fatalf("new window: %v", err)
		}
		defer w.Release()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		requests := make(chan comfy.CropRequest, 4)
		go func() {
			// Reconnect until the program exits; the server drops idle
			// websockets and restarts between workflows.
			for ctx.Err() == nil {
				if err := client.Listen(ctx, requests); err != nil && ctx.Err() == nil {
					log.Printf("event stream: %v", err)
					time.Sleep(2 * time.Second)
				}
			}
		}()
		go func() {
			for {
				select {
				case req := <-requests:
					w.Send(requestEvent{req: req})
				case <-ctx.Done():
					return
				}
			}
		}()

		mgr := session.NewManager(drag.NewLock(), client)

		var b screen.Buffer
		defer func() {
			if b != nil {
				b.Release()
			}
		}()
		winSize := image.Point{defaultWidth, defaultHeight}

		var leftDown bool

		decide := func(action session.Action) {
			cur := mgr.Current()
			if cur == nil || cur.State() != session.StateReady {
				return
			}
			cur.Decide(action)
			notifier.Decision(fmt.Sprintf("%s for %s/%s", action, cur.PromptID, cur.NodeID))
			w.Send(paint.Event{})
		}

		copyBounds := func() {
			cur := mgr.Current()
			if cur == nil {
				return
			}
			bounds := cur.SelectionBounds()
			if bounds == nil {
				return
			}
			text := fmt.Sprintf("%d,%d,%d,%d", bounds.X0, bounds.Y0, bounds.X1, bounds.Y1)
			clipboard.Write(clipboard.FmtText, []byte(text))
		}

		for {
			e := w.NextEvent()
			switch e := e.(type) {
			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}
				// Losing focus mid-drag would leave a stuck selection.
				if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
					leftDown = false
					mgr.ForceRelease()
					w.Send(paint.Event{})
				}

			case requestEvent:
				sess := mgr.Handle(e.req.Session())
				if sess == nil {
					continue
				}
				notifier.Request(fmt.Sprintf("%s/%s", e.req.PromptID, e.req.NodeID))
				go func(req comfy.CropRequest, target *session.Session) {
					img, err := client.FetchPreview(ctx, req.Image)
					if err != nil {
						log.Printf("fetch preview for %s/%s: %v", req.PromptID, req.NodeID, err)
						return
					}
					w.Send(previewEvent{target: target, img: img})
				}(e.req, sess)
				w.Send(paint.Event{})

			case previewEvent:
				e.target.AttachImage(e.img)
				w.Send(paint.Event{})

			case size.Event:
				winSize = e.Size()
				if b != nil {
					b.Release()
					b = nil
				}
				w.Send(paint.Event{})

			case paint.Event:
				if winSize.X <= 0 || winSize.Y <= 0 {
					continue
				}
				if b == nil {
					b, err = s.NewBuffer(winSize)
					if err != nil {
						log.Fatalf("new buffer: %v", err)
					}
				}
				frame := session.Frame{}
				if cur := mgr.Current(); cur != nil {
					imgW, imgH := cur.Size()
					avail := geom.DrawBox{
						W: float32(winSize.X),
						H: float32(winSize.Y - overlay.HintBarHeight),
					}
					box, scale := geom.FitDrawBox(float32(imgW), float32(imgH), avail)
					cur.SetDrawBox(box, scale)
					frame = cur.Frame()
				}
				overlay.Draw(b.RGBA(), frame, style)
				overlay.DrawHints(b.RGBA(), hints, style)
				w.Upload(image.Point{}, b, b.Bounds())
				w.Publish()

			case mouse.Event:
				cur := mgr.Current()
				if cur == nil {
					continue
				}
				p := geom.ScreenPoint{X: e.X, Y: e.Y}
				switch {
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress:
					leftDown = true
					if cur.PointerDown(p) {
						w.Send(paint.Event{})
					}
				case e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
					leftDown = false
					cur.PointerUp()
					w.Send(paint.Event{})
				case e.Direction == mouse.DirNone:
					cur.PointerMove(p, leftDown)
					if leftDown {
						w.Send(paint.Event{})
					}
				}

			case key.Event:
				if e.Direction != key.DirPress {
					continue
				}
				switch e.Code {
				case key.CodeReturnEnter:
					decide(session.ActionContinue)
					continue
				case key.CodeEscape:
					decide(session.ActionCancel)
					continue
				}
				switch e.Rune {
				case 'p', 'P':
					decide(session.ActionPassthrough)
				case 'c', 'C':
					copyBounds()
				case 'q', 'Q':
					return
				}
			}
		}
	})
}

// Package comfy talks to the pipeline server: it listens for crop requests
// on the websocket event stream, fetches preview images, and posts the
// user's decision back.
package comfy

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/example/cropgate/internal/session"
)

// requestEventType is the server event announcing a pause-for-crop point.
const requestEventType = "interactive.crop.request"

// ImageRef locates a preview image on the server.
type ImageRef struct {
	Filename  string `json:"filename"`
	Type      string `json:"type"`
	Subfolder string `json:"subfolder"`
}

// CropRequest is the wire form of an inbound crop request.
type CropRequest struct {
	PromptID           string   `json:"prompt_id"`
	NodeID             string   `json:"node"`
	Image              ImageRef `json:"image"`
	Width              int      `json:"width"`
	Height             int      `json:"height"`
	ForceOriginalRatio bool     `json:"force_original_ratio"`
}

// Valid reports whether every required field is present.
func (r CropRequest) Valid() bool {
	return r.PromptID != "" && r.NodeID != "" && r.Image.Filename != "" &&
		r.Width > 0 && r.Height > 0
}

// Session converts the request to the session manager's form.
func (r CropRequest) Session() session.Request {
	return session.Request{
		PromptID:           r.PromptID,
		NodeID:             r.NodeID,
		Width:              r.Width,
		Height:             r.Height,
		ForceOriginalRatio: r.ForceOriginalRatio,
	}
}

// envelope is the generic shape of a websocket event.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// submitReply is the server's answer to a decision post.
type submitReply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Client is a connection to one server.
type Client struct {
	host     string // host:port, no scheme
	clientID string
	httpc    *http.Client
	dialer   *websocket.Dialer
}

// NewClient creates a client for the server at host (host:port).
func NewClient(host string) *Client {
	return &Client{
		host:     host,
		clientID: uuid.NewString(),
		httpc:    &http.Client{Timeout: 30 * time.Second},
		dialer:   websocket.DefaultDialer,
	}
}

// ClientID returns the id this client registers on the event stream with.
func (c *Client) ClientID() string { return c.clientID }

// Listen connects to the server's event stream and delivers every valid
// crop request to out until ctx is done or the connection fails. Events of
// other types and malformed requests are skipped.
func (c *Client) Listen(ctx context.Context, out chan<- CropRequest) error {
	wsURL := url.URL{
		Scheme:   "ws",
		Host:     c.host,
		Path:     "/ws",
		RawQuery: url.Values{"clientId": {c.clientID}}.Encode(),
	}
	conn, _, err := c.dialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL.String(), err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event: %w", err)
		}
		if env.Type != requestEventType {
			continue
		}
		var req CropRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			log.Printf("decode crop request: %v", err)
			continue
		}
		if !req.Valid() {
			log.Printf("drop crop request with missing fields: %+v", req)
			continue
		}
		select {
		case out <- req:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// FetchPreview downloads and decodes the preview image for ref.
func (c *Client) FetchPreview(ctx context.Context, ref ImageRef) (*image.RGBA, error) {
	viewURL := url.URL{
		Scheme: "http",
		Host:   c.host,
		Path:   "/view",
		RawQuery: url.Values{
			"filename":  {ref.Filename},
			"type":      {ref.Type},
			"subfolder": {ref.Subfolder},
		}.Encode(),
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, viewURL.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch preview: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch preview: unexpected status %s", resp.Status)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode preview: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}

// SubmitDecision posts one decision for a pause point. It implements
// session.Submitter. The server acknowledges with {ok, error}; a negative
// acknowledgement is an error for the caller to log, nothing more — the
// session is already retired.
func (c *Client) SubmitDecision(promptID, nodeID string, action session.Action, rect *session.Bounds) error {
	form := url.Values{
		"prompt_id": {promptID},
		"node_id":   {nodeID},
		"action":    {string(action)},
	}
	if rect != nil {
		form.Set("x0", strconv.Itoa(rect.X0))
		form.Set("y0", strconv.Itoa(rect.Y0))
		form.Set("x1", strconv.Itoa(rect.X1))
		form.Set("y1", strconv.Itoa(rect.Y1))
	}

	submitURL := url.URL{Scheme: "http", Host: c.host, Path: "/interactive_crop/submit"}
	resp, err := c.httpc.PostForm(submitURL.String(), form)
	if err != nil {
		return fmt.Errorf("submit decision: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("submit decision: read reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("submit decision: unexpected status %s", resp.Status)
	}

	var reply submitReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return fmt.Errorf("submit decision: decode reply: %w", err)
	}
	if !reply.OK {
		return fmt.Errorf("submit decision rejected: %s", reply.Error)
	}
	return nil
}

var _ session.Submitter = (*Client)(nil)

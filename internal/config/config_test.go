package config

import (
	"image/color"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
server = crop.example.net:8188

[notify]
request = false
decision = true

[overlay]
selection_light = #EEEEEE
handle_fill = #FF0000
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Server != "crop.example.net:8188" {
		t.Errorf("Expected server 'crop.example.net:8188', got '%s'", cfg.Server)
	}

	if cfg.Notify.Request {
		t.Error("Expected notify.request to be false")
	}
	if !cfg.Notify.Decision {
		t.Error("Expected notify.decision to be true")
	}

	want := color.RGBA{0xEE, 0xEE, 0xEE, 0xFF}
	if cfg.Overlay.SelectionLight != want {
		t.Errorf("Unexpected selection_light color: %+v", cfg.Overlay.SelectionLight)
	}
	if cfg.Overlay.HandleFill != (color.RGBA{0xFF, 0, 0, 0xFF}) {
		t.Errorf("Unexpected handle_fill color: %+v", cfg.Overlay.HandleFill)
	}
	// Keys not set keep their defaults.
	if cfg.Overlay.SelectionDark != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("Unexpected selection_dark color: %+v", cfg.Overlay.SelectionDark)
	}
}

func TestCircular(t *testing.T) {
	input := `server = 10.0.0.2:8188

[notify]
request = true
decision = true

[overlay]
selection_light = #FFFFAA
selection_dark = #222222
handle_fill = #00FF0080
handle_border = #000000
`
	// 1. Parse initial input
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	// 2. Generate string representation
	generated := cfg.String()

	// 3. Parse generated string
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	// 4. Compare relevant fields
	if cfg.Server != cfg2.Server {
		t.Errorf("Server mismatch: %q vs %q", cfg.Server, cfg2.Server)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.Overlay != cfg2.Overlay {
		t.Errorf("Overlay mismatch: %+v vs %+v", cfg.Overlay, cfg2.Overlay)
	}
}

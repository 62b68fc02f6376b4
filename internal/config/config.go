package config

import (
	"fmt"
	"image/color"
	"strings"
)

// Notify holds notification toggles.
type Notify struct {
	Request  bool
	Decision bool
}

// Overlay holds the selection colors.
type Overlay struct {
	SelectionLight color.RGBA
	SelectionDark  color.RGBA
	HandleFill     color.RGBA
	HandleBorder   color.RGBA
}

// Config holds the application configuration.
type Config struct {
	Server  string
	Notify  Notify
	Overlay Overlay
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Server: "127.0.0.1:8188",
		Notify: Notify{
			Request:  true,
			Decision: false,
		},
		Overlay: Overlay{
			SelectionLight: color.RGBA{255, 255, 255, 255},
			SelectionDark:  color.RGBA{0, 0, 0, 255},
			HandleFill:     color.RGBA{255, 255, 255, 255},
			HandleBorder:   color.RGBA{0, 0, 0, 255},
		},
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Server != "" {
		fmt.Fprintf(&sb, "server = %s\n", c.Server)
	}
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "request = %v\n", c.Notify.Request)
	fmt.Fprintf(&sb, "decision = %v\n", c.Notify.Decision)
	sb.WriteString("\n")

	// Overlay section
	sb.WriteString("[overlay]\n")
	fmt.Fprintf(&sb, "selection_light = %s\n", toHex(c.Overlay.SelectionLight))
	fmt.Fprintf(&sb, "selection_dark = %s\n", toHex(c.Overlay.SelectionDark))
	fmt.Fprintf(&sb, "handle_fill = %s\n", toHex(c.Overlay.HandleFill))
	fmt.Fprintf(&sb, "handle_border = %s\n", toHex(c.Overlay.HandleBorder))
	sb.WriteString("\n")

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

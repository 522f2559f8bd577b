// Package render computes what the popup shows and where it goes.
// It has no toolkit dependency: the display package turns its output into
// widgets and cairo drawing.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/recnotify/internal/model"
)

// ReferenceSize is the glyph canvas edge at scale 1.
const ReferenceSize = 30

// Color is an opaque RGB color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses "#rrggbb".
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func mustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// RGB returns the components in [0, 1].
func (c Color) RGB() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// Palette.
var (
	ColorShadow     = mustColor("#000000")
	ColorBorder     = mustColor("#404040")
	ColorBackground = mustColor("#252525")
	ColorBackdrop   = mustColor("#1a1a1a")
	ColorText       = mustColor("#ffffff")
	ColorRecording  = mustColor("#ff3333")
	ColorPaused     = mustColor("#ff9900")
	ColorOK         = mustColor("#00cc00")
	ColorReplay     = mustColor("#0099ff")
)

// ShapeKind selects how Points are interpreted.
type ShapeKind int

const (
	// ShapeOval is the ellipse inscribed in the box Points[0]-Points[1].
	ShapeOval ShapeKind = iota
	// ShapeRect is the box Points[0]-Points[1].
	ShapeRect
	// ShapePolygon is a closed polygon through Points.
	ShapePolygon
	// ShapeLine is a stroked segment Points[0]-Points[1].
	ShapeLine
)

// Point is a canvas coordinate in pixels.
type Point struct {
	X, Y float64
}

// Shape is one drawing primitive.
type Shape struct {
	Kind   ShapeKind
	Points []Point

	// Filled shapes are painted with Fill before the outline is stroked.
	Filled  bool
	Fill    Color
	Outline Color

	// Width is the stroke width. Lines always stroke with Outline.
	Width float64
}

// Glyph is the status indicator drawn left of the label.
type Glyph struct {
	// Name identifies the drawing, e.g. "recording-started".
	Name   string
	Size   int
	Shapes []Shape
}

// Scale returns the resolution scale factor for a screen width.
// 1.0 at 1920 pixels and below, proportionally larger above.
func Scale(screenWidth int) float64 {
	s := float64(screenWidth) / 1920
	if s < 1 {
		return 1
	}
	return s
}

// CanvasSize returns the glyph canvas edge in pixels.
func CanvasSize(scale float64) int {
	return int(ReferenceSize * scale)
}

// FontSize returns the label font size in points.
func FontSize(scale float64) int {
	return int(11 * scale)
}

type builder struct {
	s      float64
	shapes []Shape
}

func (b *builder) pts(coords ...float64) []Point {
	pts := make([]Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, Point{X: coords[i] * b.s, Y: coords[i+1] * b.s})
	}
	return pts
}

func (b *builder) oval(x0, y0, x1, y1 float64, fill, outline Color) {
	b.shapes = append(b.shapes, Shape{
		Kind: ShapeOval, Points: b.pts(x0, y0, x1, y1),
		Filled: true, Fill: fill, Outline: outline, Width: 1,
	})
}

func (b *builder) rect(x0, y0, x1, y1 float64, c Color) {
	b.shapes = append(b.shapes, Shape{
		Kind: ShapeRect, Points: b.pts(x0, y0, x1, y1),
		Filled: true, Fill: c, Outline: c, Width: 1,
	})
}

func (b *builder) polygon(c Color, coords ...float64) {
	b.shapes = append(b.shapes, Shape{
		Kind: ShapePolygon, Points: b.pts(coords...),
		Filled: true, Fill: c, Outline: c, Width: 1,
	})
}

func (b *builder) line(x0, y0, x1, y1 float64, c Color, width float64) {
	b.shapes = append(b.shapes, Shape{
		Kind: ShapeLine, Points: b.pts(x0, y0, x1, y1),
		Outline: c, Width: width,
	})
}

// GlyphFor returns the indicator for a request.
// Pairings without a dedicated drawing get the empty ring, named "unknown".
func GlyphFor(r model.Request, scale float64) Glyph {
	b := &builder{s: scale}

	// Shadow and ring
	b.oval(5, 5, 25, 25, ColorShadow, ColorShadow)
	b.oval(6, 6, 24, 24, ColorBackground, ColorBorder)

	name := "unknown"
	switch {
	case r.Type == model.TypeRecording && r.State == model.StateStarted:
		b.oval(8, 8, 22, 22, ColorRecording, ColorShadow)
		name = "recording-started"
	case r.Type == model.TypeRecording && r.State == model.StatePaused:
		b.rect(12, 10, 15, 20, ColorPaused)
		b.rect(17, 10, 20, 20, ColorPaused)
		name = "recording-paused"
	case r.Type == model.TypeRecording && r.State == model.StateUnpaused:
		b.polygon(ColorOK, 12, 10, 12, 20, 22, 15)
		name = "recording-unpaused"
	case r.Type == model.TypeRecording && r.State == model.StateSaved:
		w := float64(int(3 * scale))
		b.line(10, 15, 15, 20, ColorOK, w)
		b.line(15, 20, 22, 10, ColorOK, w)
		name = "recording-saved"
	case r.Type == model.TypeReplay && r.State == model.StateSaved:
		b.oval(8, 8, 22, 22, ColorReplay, ColorShadow)
		name = "replay-saved"
	}

	return Glyph{
		Name:   name,
		Size:   CanvasSize(scale),
		Shapes: b.shapes,
	}
}

// Content is everything the popup displays for one request.
type Content struct {
	Label    string
	Glyph    Glyph
	FontSize int
}

// ContentFor builds the popup content for r at the given scale.
func ContentFor(r model.Request, scale float64) Content {
	return Content{
		Label:    r.Label(),
		Glyph:    GlyphFor(r, scale),
		FontSize: FontSize(scale),
	}
}

package render

// Popup size limits and top-right margins, in pixels.
const (
	MinWidth    = 300
	MaxWidth    = 500
	MinHeight   = 55
	MarginRight = 10
	MarginTop   = 20
)

// DefaultScreen is used when no monitor can be queried.
var DefaultScreen = Screen{Width: 1920, Height: 1080}

// Screen is the primary monitor size in pixels.
type Screen struct {
	Width  int
	Height int
}

// Geometry is the popup rectangle in screen coordinates.
type Geometry struct {
	X, Y          int
	Width, Height int
	Centered      bool
}

// ComputeGeometry sizes the popup at 15% of the screen width, clamped to
// [MinWidth, MaxWidth], with a height of 20% of the width (at least
// MinHeight). Centered places it in the middle of the screen; otherwise it
// sits in the top-right corner.
func ComputeGeometry(screen Screen, centered bool) Geometry {
	w := int(float64(screen.Width) * 0.15)
	w = max(MinWidth, min(MaxWidth, w))
	h := max(MinHeight, int(float64(w)*0.20))

	g := Geometry{Width: w, Height: h, Centered: centered}
	if centered {
		g.X = floorHalf(screen.Width - w)
		g.Y = floorHalf(screen.Height - h)
	} else {
		g.X = screen.Width - w - MarginRight
		g.Y = MarginTop
	}
	return g
}

// RightMargin returns the distance from the popup's right edge to the
// screen's right edge.
func (g Geometry) RightMargin(screen Screen) int {
	return screen.Width - g.X - g.Width
}

// floorHalf halves n rounding toward negative infinity.
func floorHalf(n int) int {
	if n < 0 {
		return -((1 - n) / 2)
	}
	return n / 2
}

// Anchor is the edge placement of a popup on a layer-shell surface.
// A zero Anchor leaves the popup centred by the compositor.
type Anchor struct {
	Top, Right  bool
	MarginTop   int
	MarginRight int
}

// Anchor returns the layer-shell placement equivalent to g on screen.
func (g Geometry) Anchor(screen Screen) Anchor {
	if g.Centered {
		return Anchor{}
	}
	return Anchor{
		Top:         true,
		Right:       true,
		MarginTop:   g.Y,
		MarginRight: g.RightMargin(screen),
	}
}

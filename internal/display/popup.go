package display

import (
	"fmt"
	"html"
	"log/slog"
	"math"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/cairo"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/recnotify/internal/model"
	"github.com/jmylchreest/recnotify/internal/render"
)

// CSS classes applied to popup widgets.
const (
	ClassPopup   = "recnotify-popup"
	ClassContent = "recnotify-content"
	ClassGlyph   = "recnotify-glyph"
	ClassLabel   = "recnotify-label"
)

// Placement reports where the popup should appear.
type Placement interface {
	PositionCenter() bool
}

// Popup is the single notification window. It implements engine.Surface.
type Popup struct {
	logger    *slog.Logger
	placement Placement

	window *gtk.Window
	box    *gtk.Box
	area   *gtk.DrawingArea
	label  *gtk.Label

	monitor  *gdk.Monitor
	screen   render.Screen
	geometry render.Geometry

	request *model.Request
	content render.Content
	visible bool
}

// NewPopup creates the popup window, hidden. It must be called on the UI
// thread after GTK is initialised.
func NewPopup(app *gtk.Application, placement Placement, logger *slog.Logger) *Popup {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Popup{
		logger:    logger,
		placement: placement,
		monitor:   primaryMonitor(gdk.DisplayGetDefault()),
	}

	p.window = gtk.NewWindow()
	if app != nil {
		p.window.SetApplication(app)
	}
	p.window.SetTitle("recnotify")
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.AddCSSClass(ClassPopup)

	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(p.window, 0)
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "recnotify-popup")
	if p.monitor != nil {
		layershell.SetMonitor(p.window, p.monitor)
	}

	p.buildUI()
	p.Relayout()

	return p
}

func (p *Popup) buildUI() {
	p.box = gtk.NewBox(gtk.OrientationHorizontal, 10)
	p.box.AddCSSClass(ClassContent)
	p.box.SetVAlign(gtk.AlignCenter)

	p.area = gtk.NewDrawingArea()
	p.area.AddCSSClass(ClassGlyph)
	p.area.SetVAlign(gtk.AlignCenter)
	p.area.SetDrawFunc(func(_ *gtk.DrawingArea, cr *cairo.Context, _, _ int) {
		drawGlyph(cr, p.content.Glyph)
	})

	p.label = gtk.NewLabel("")
	p.label.AddCSSClass(ClassLabel)
	p.label.SetHExpand(true)
	p.label.SetXAlign(0)

	p.box.Append(p.area)
	p.box.Append(p.label)
	p.window.SetChild(p.box)
}

// Present shows r's label and glyph. Visibility is left to SetOpacity.
func (p *Popup) Present(r model.Request) {
	p.request = &r
	p.updateContent()
	p.logger.Debug("popup content updated", "request", r.String(), "glyph", p.content.Glyph.Name)
}

func (p *Popup) updateContent() {
	if p.request == nil {
		return
	}
	p.content = render.ContentFor(*p.request, render.Scale(p.screen.Width))

	size := p.content.Glyph.Size
	p.area.SetContentWidth(size)
	p.area.SetContentHeight(size)
	p.area.QueueDraw()

	p.label.SetMarkup(fmt.Sprintf(`<span weight="bold" size="%dpt">%s</span>`,
		p.content.FontSize, html.EscapeString(p.content.Label)))
}

// SetOpacity fades the window. Zero hides it.
func (p *Popup) SetOpacity(opacity float64) {
	if opacity <= 0 {
		if p.visible {
			p.window.SetVisible(false)
			p.visible = false
		}
		p.window.SetOpacity(0)
		return
	}

	p.window.SetOpacity(opacity)
	if !p.visible {
		p.window.Present()
		p.visible = true
	}
}

// Relayout recomputes size and placement from the monitor and settings.
func (p *Popup) Relayout() {
	p.screen = screenOf(p.monitor)
	p.geometry = render.ComputeGeometry(p.screen, p.placement.PositionCenter())

	p.window.SetDefaultSize(p.geometry.Width, p.geometry.Height)
	p.window.SetSizeRequest(p.geometry.Width, p.geometry.Height)
	applyAnchor(p.window, p.geometry.Anchor(p.screen))
	p.updateContent()

	p.logger.Debug("popup relayout",
		"screen", fmt.Sprintf("%dx%d", p.screen.Width, p.screen.Height),
		"x", p.geometry.X,
		"y", p.geometry.Y,
		"width", p.geometry.Width,
		"height", p.geometry.Height,
		"centered", p.geometry.Centered,
	)
}

// Close destroys the window.
func (p *Popup) Close() {
	p.window.Close()
	p.visible = false
}

// drawGlyph paints g in canvas coordinates.
func drawGlyph(cr *cairo.Context, g render.Glyph) {
	for _, s := range g.Shapes {
		if len(s.Points) < 2 {
			continue
		}
		cr.NewPath()

		switch s.Kind {
		case render.ShapeOval:
			ovalPath(cr, s.Points[0], s.Points[1])
		case render.ShapeRect:
			a, b := s.Points[0], s.Points[1]
			cr.Rectangle(a.X, a.Y, b.X-a.X, b.Y-a.Y)
		case render.ShapePolygon:
			cr.MoveTo(s.Points[0].X, s.Points[0].Y)
			for _, pt := range s.Points[1:] {
				cr.LineTo(pt.X, pt.Y)
			}
			cr.ClosePath()
		case render.ShapeLine:
			cr.MoveTo(s.Points[0].X, s.Points[0].Y)
			cr.LineTo(s.Points[1].X, s.Points[1].Y)
		}

		if s.Filled {
			cr.SetSourceRGB(s.Fill.RGB())
			cr.FillPreserve()
		}
		cr.SetSourceRGB(s.Outline.RGB())
		cr.SetLineWidth(max(s.Width, 1))
		cr.Stroke()
	}
}

// ovalPath adds the ellipse inscribed in the box a-b.
func ovalPath(cr *cairo.Context, a, b render.Point) {
	cx, cy := (a.X+b.X)/2, (a.Y+b.Y)/2
	rx, ry := (b.X-a.X)/2, (b.Y-a.Y)/2
	if rx <= 0 || ry <= 0 {
		return
	}
	cr.Save()
	cr.Translate(cx, cy)
	cr.Scale(rx, ry)
	cr.Arc(0, 0, 1, 0, 2*math.Pi)
	cr.Restore()
}

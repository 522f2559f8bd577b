package display

import (
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/recnotify/internal/render"
)

// primaryMonitor returns the first monitor of display, or nil.
// GTK4 has no notion of a primary monitor.
func primaryMonitor(display *gdk.Display) *gdk.Monitor {
	if display == nil {
		return nil
	}
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	return wrapMonitor(monitors.Item(0))
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor.
// gotk4 does not export its own wrapper.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// screenOf returns the size of monitor, or render.DefaultScreen when it
// cannot be queried.
func screenOf(monitor *gdk.Monitor) render.Screen {
	if monitor == nil {
		return render.DefaultScreen
	}
	rect := monitor.Geometry()
	if rect == nil || rect.Width() <= 0 || rect.Height() <= 0 {
		return render.DefaultScreen
	}
	return render.Screen{Width: rect.Width(), Height: rect.Height()}
}

// applyAnchor places a layer-shell window.
func applyAnchor(window *gtk.Window, a render.Anchor) {
	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, a.Top)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, a.Right)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, false)
	layershell.SetMargin(window, layershell.LayerShellEdgeTop, a.MarginTop)
	layershell.SetMargin(window, layershell.LayerShellEdgeRight, a.MarginRight)
}

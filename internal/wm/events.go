package wm

import (
	"github.com/jezek/xgb/xproto"

	"panewm/internal/cfg"
	"panewm/internal/log"
	"panewm/internal/x11"
)

// keymap resolves keycodes from the wire into layout-independent keysyms.
// Satisfied by *x11.Keymap.
type keymap interface {
	Keysym(code xproto.Keycode) x11.Keysym
}

type point struct {
	x int16
	y int16
}

// grabState tracks an in-progress pointer move of a popup window. The rest
// state is active == false.
type grabState struct {
	active bool

	// The position of the pointer when the move started.
	start point

	// The previous pointer position, needed to compute the pointer motion.
	lastMouse point

	// The window that is being moved.
	window xproto.Window
}

// Dispatcher classifies raw protocol events and invokes the matching
// handler. Exactly one handler runs per event.
type Dispatcher struct {
	x        xconn
	reg      *Registry
	monitors *MonitorSet
	acts     *Actions
	conf     *cfg.Profile
	keys     keymap

	// enumerate queries the currently connected outputs.
	enumerate func() ([]x11.Output, error)

	// The first event code assigned to the RandR extension.
	randrBase uint8

	grab grabState
}

// NewDispatcher creates an event dispatcher.
func NewDispatcher(
	x xconn,
	reg *Registry,
	monitors *MonitorSet,
	acts *Actions,
	conf *cfg.Profile,
	keys keymap,
	enumerate func() ([]x11.Output, error),
	randrBase uint8,
) *Dispatcher {
	return &Dispatcher{
		x:         x,
		reg:       reg,
		monitors:  monitors,
		acts:      acts,
		conf:      conf,
		keys:      keys,
		enumerate: enumerate,
		randrBase: randrBase,
	}
}

// Dispatch handles a single raw event.
//
// Note the difference between REQUESTS and NOTIFICATIONS. A request has not
// happened yet and will not happen until the window manager acts on it. A
// notification already happened; there is nothing to do but take note of it.
func (d *Dispatcher) Dispatch(evt x11.Event) {
	// RandR events take precedence over the core event table, even if their
	// dynamically assigned codes collide with a core event constant.
	if d.randrBase != 0 && evt.Code >= d.randrBase {
		d.handleScreenChange()
		return
	}

	switch evt.Code {
	case xproto.MapRequest:
		if e, ok := evt.Data.(xproto.MapRequestEvent); ok {
			d.handleMapRequest(e)
		}
	case xproto.ButtonPress:
		if e, ok := evt.Data.(xproto.ButtonPressEvent); ok {
			d.handleButtonPress(e)
		}
	case xproto.MotionNotify:
		if e, ok := evt.Data.(xproto.MotionNotifyEvent); ok {
			d.handleMotionNotify(e)
		}
	case xproto.ButtonRelease:
		d.handleButtonRelease()
	case xproto.PropertyNotify:
		if e, ok := evt.Data.(xproto.PropertyNotifyEvent); ok {
			d.handlePropertyNotify(e)
		}
	case xproto.UnmapNotify:
		if e, ok := evt.Data.(xproto.UnmapNotifyEvent); ok {
			d.handleUnmapNotify(e)
		}
	case xproto.DestroyNotify:
		if e, ok := evt.Data.(xproto.DestroyNotifyEvent); ok {
			d.handleDestroyNotify(e)
		}
	case xproto.ConfigureRequest:
		if e, ok := evt.Data.(xproto.ConfigureRequestEvent); ok {
			d.handleConfigureRequest(e)
		}
	case xproto.KeyPress:
		if e, ok := evt.Data.(xproto.KeyPressEvent); ok {
			d.handleKeyPress(e)
		}
	case xproto.KeyRelease:
		if e, ok := evt.Data.(xproto.KeyReleaseEvent); ok {
			d.handleKeyRelease(e)
		}
	}
}

// Grabbing reports whether an interactive window move is in progress.
func (d *Dispatcher) Grabbing() bool {
	return d.grab.active
}

// handleScreenChange re-enumerates the outputs and reconciles them with the
// known set.
func (d *Dispatcher) handleScreenChange() {
	outputs, err := d.enumerate()
	if err != nil {
		log.Error("Failed to enumerate outputs: %s", err)
		return
	}
	d.monitors.Merge(outputs)
}

// handleMapRequest registers and focuses a window that wants to appear on
// screen. A second request for a known window changes nothing.
func (d *Dispatcher) handleMapRequest(e xproto.MapRequestEvent) {
	if d.reg.Get(e.Window) != nil {
		return
	}
	w := d.reg.Manage(e.Window)
	d.reg.Focus(w)
}

// handleButtonPress starts an interactive move of the popup window under the
// pointer. Presses over anything else are ignored.
func (d *Dispatcher) handleButtonPress(e xproto.ButtonPressEvent) {
	w := d.reg.Get(e.Child)
	if w == nil || w.State != StatePopup {
		return
	}
	if _, err := d.x.GetGeometry(e.Child); err != nil {
		log.Debug("Window %d gone before move could start: %s", e.Child, err)
		return
	}
	d.grab = grabState{
		active:    true,
		start:     point{e.RootY, e.RootY},
		lastMouse: point{e.RootX, e.RootY},
		window:    e.Child,
	}
	if err := d.x.GrabPointer(); err != nil {
		log.Error("Failed to grab pointer: %s", err)
		d.grab = grabState{}
	}
}

// handleMotionNotify repositions the grabbed window by the pointer motion
// since the last event. Motion is only delivered while the pointer grab is
// held.
func (d *Dispatcher) handleMotionNotify(e xproto.MotionNotifyEvent) {
	if !d.grab.active {
		return
	}
	geo, err := d.x.GetGeometry(d.grab.window)
	if err != nil {
		// The window went away mid-move; end the grab.
		if err := d.x.UngrabPointer(); err != nil {
			log.Error("Failed to ungrab pointer: %s", err)
		}
		d.grab = grabState{}
		return
	}
	x := geo.X + (e.RootX - d.grab.lastMouse.x)
	y := geo.Y + (e.RootY - d.grab.lastMouse.y)
	if err := d.x.MoveWindow(d.grab.window, x, y); err != nil {
		log.Error("Failed to move window %d: %s", d.grab.window, err)
	}
	d.grab.lastMouse = point{e.RootX, e.RootY}
}

// handleButtonRelease ends an interactive move. Releasing with no grab held
// is harmless.
func (d *Dispatcher) handleButtonRelease() {
	if err := d.x.UngrabPointer(); err != nil {
		log.Error("Failed to ungrab pointer: %s", err)
	}
	d.grab = grabState{}
}

// handlePropertyNotify refreshes the cached property that changed and lets
// the window settle into its predicted state.
func (d *Dispatcher) handlePropertyNotify(e xproto.PropertyNotifyEvent) {
	w := d.reg.Get(e.Window)
	if w == nil {
		log.Debug("Property change of unmanaged window: %d", e.Window)
		return
	}
	switch e.Atom {
	case xproto.AtomWmName:
		d.reg.RefreshName(w)
	case xproto.AtomWmSizeHints:
		d.reg.RefreshSizeHints(w)
	case xproto.AtomWmHints:
		d.reg.RefreshWmHints(w)
	}
	d.reg.SetState(w, PredictState(w), false)
}

// handleUnmapNotify follows a window that took itself off screen. The server
// already unmapped it, so the state change is forced.
func (d *Dispatcher) handleUnmapNotify(e xproto.UnmapNotifyEvent) {
	if w := d.reg.Get(e.Window); w != nil {
		d.reg.SetState(w, StateHidden, true)
	}
}

// handleDestroyNotify releases the record of a window that left the server.
func (d *Dispatcher) handleDestroyNotify(e xproto.DestroyNotifyEvent) {
	if d.reg.Get(e.Window) != nil {
		d.reg.Forget(e.Window)
	}
}

// handleConfigureRequest answers a client that wants to move or resize
// itself. Managed windows are laid out by panewm, so their requests are
// dropped; unmanaged windows get exactly what they asked for.
func (d *Dispatcher) handleConfigureRequest(e xproto.ConfigureRequestEvent) {
	if d.reg.Get(e.Window) != nil {
		return
	}
	err := d.x.ConfigureWindow(e.Window, e.X, e.Y, e.Width, e.Height, e.BorderWidth)
	if err != nil {
		log.Error("Failed to configure window %d: %s", e.Window, err)
	}
}

// handleKeyPress resolves a grabbed key press against the key binding table.
func (d *Dispatcher) handleKeyPress(e xproto.KeyPressEvent) {
	d.runKeybind(e.Detail, e.State, 0)
}

// handleKeyRelease resolves a grabbed key release against the binds that
// fire on release.
func (d *Dispatcher) handleKeyRelease(e xproto.KeyReleaseEvent) {
	d.runKeybind(e.Detail, e.State, cfg.FlagRelease)
}

func (d *Dispatcher) runKeybind(code xproto.Keycode, state uint16, flags cfg.BindFlags) {
	sym := d.keys.Keysym(code)
	mods := x11.Keymod(state) &^ d.conf.Keyboard.IgnoreMod
	bind := d.conf.Keyboard.Binds.Find(mods, sym, flags)
	if bind == nil {
		log.Debug("Unbound key: %d (mods %d)", code, mods)
		return
	}
	for _, action := range bind.Actions {
		d.acts.Execute(action)
	}
}

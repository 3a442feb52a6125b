package wm

import (
	"github.com/jezek/xgb/xproto"
	"golang.org/x/exp/slices"

	"panewm/internal/log"
	"panewm/internal/x11"
)

// WindowState describes how a managed window is displayed.
type WindowState int

const (
	StateTiling WindowState = iota
	StatePopup
	StateFullscreen
	StateHidden
)

var stateNames = map[WindowState]string{
	StateTiling:     "tiling",
	StatePopup:      "popup",
	StateFullscreen: "fullscreen",
	StateHidden:     "hidden",
}

// String implements Stringer.
func (s WindowState) String() string {
	return stateNames[s]
}

// Window is a single managed window together with its cached properties.
type Window struct {
	ID        xproto.Window
	Name      string
	SizeHints x11.SizeHints
	WmHints   x11.WmHints
	State     WindowState
}

// Registry tracks every managed window.
type Registry struct {
	x       xconn
	windows map[xproto.Window]*Window
	order   []xproto.Window // Creation order, used for window cycling
	focused xproto.Window
}

// NewRegistry creates an empty window registry.
func NewRegistry(x xconn) *Registry {
	return &Registry{
		x:       x,
		windows: make(map[xproto.Window]*Window),
	}
}

// Get returns the managed window with the given ID, or nil if the window is
// not tracked.
func (r *Registry) Get(win xproto.Window) *Window {
	return r.windows[win]
}

// Windows returns all managed windows in creation order.
func (r *Registry) Windows() []*Window {
	windows := make([]*Window, 0, len(r.order))
	for _, id := range r.order {
		windows = append(windows, r.windows[id])
	}
	return windows
}

// Manage starts tracking the given window: its properties are cached, its
// display state is predicted and applied, and it is put on screen.
func (r *Registry) Manage(win xproto.Window) *Window {
	w := &Window{ID: win, State: StateHidden}
	r.windows[win] = w
	r.order = append(r.order, win)
	r.RefreshName(w)
	r.RefreshSizeHints(w)
	r.RefreshWmHints(w)
	log.Info("Managing window %d (%q)", win, w.Name)
	r.SetState(w, PredictState(w), true)
	return w
}

// Forget drops the managed window record. Nothing is sent to the server; the
// window is already gone.
func (r *Registry) Forget(win xproto.Window) {
	w := r.windows[win]
	if w == nil {
		return
	}
	log.Info("Releasing window %d (%q)", win, w.Name)
	delete(r.windows, win)
	if idx := slices.Index(r.order, win); idx != -1 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}
	if r.focused == win {
		r.focused = 0
	}
}

// Focus assigns input focus to the given managed window.
func (r *Registry) Focus(w *Window) {
	if err := r.x.SetInputFocus(w.ID); err != nil {
		log.Error("Failed to focus window %d: %s", w.ID, err)
		return
	}
	r.focused = w.ID
}

// Focused returns the currently focused managed window, or nil.
func (r *Registry) Focused() *Window {
	if r.focused == 0 {
		return nil
	}
	return r.windows[r.focused]
}

// CycleFocus moves focus to the next (dir > 0) or previous (dir < 0) visible
// managed window in creation order.
func (r *Registry) CycleFocus(dir int) {
	visible := []xproto.Window{}
	for _, id := range r.order {
		if r.windows[id].State != StateHidden {
			visible = append(visible, id)
		}
	}
	if len(visible) == 0 {
		return
	}
	idx := slices.Index(visible, r.focused)
	// An untracked focus lands on the first visible window.
	next := (idx + dir + len(visible)) % len(visible)
	r.Focus(r.windows[visible[next]])
}

// RefreshName updates the cached WM_NAME of the window.
func (r *Registry) RefreshName(w *Window) {
	name, err := r.x.GetWindowTitle(w.ID)
	if err != nil {
		log.Debug("No name for window %d: %s", w.ID, err)
		return
	}
	w.Name = name
}

// RefreshSizeHints updates the cached WM_NORMAL_HINTS of the window.
func (r *Registry) RefreshSizeHints(w *Window) {
	hints, err := r.x.GetSizeHints(w.ID)
	if err != nil {
		log.Debug("No size hints for window %d: %s", w.ID, err)
		return
	}
	w.SizeHints = hints
}

// RefreshWmHints updates the cached WM_HINTS of the window.
func (r *Registry) RefreshWmHints(w *Window) {
	hints, err := r.x.GetWmHints(w.ID)
	if err != nil {
		log.Debug("No WM hints for window %d: %s", w.ID, err)
		return
	}
	w.WmHints = hints
}

// PredictState derives the display state a window should be in from its
// cached properties. It has no side effects.
func PredictState(w *Window) WindowState {
	if w.WmHints.Flags&x11.HintState != 0 && w.WmHints.InitialState == x11.StateIconic {
		return StateHidden
	}
	if fixedSize(w.SizeHints) {
		return StatePopup
	}
	if w.State == StateFullscreen {
		return StateFullscreen
	}
	return StateTiling
}

// fixedSize reports whether the size hints pin the window to a single size.
// Such windows are dialogs and floaters rather than tiling candidates.
func fixedSize(hints x11.SizeHints) bool {
	if hints.Flags&x11.HintMinSize == 0 || hints.Flags&x11.HintMaxSize == 0 {
		return false
	}
	return hints.MinWidth == hints.MaxWidth && hints.MinHeight == hints.MaxHeight
}

// SetState moves the window into the given display state. Non-forced changes
// are honored only if consistent with the current state: a hidden window
// stays hidden until something forces it back on screen. Forced changes
// always apply.
func (r *Registry) SetState(w *Window, state WindowState, force bool) {
	if w.State == state {
		return
	}
	if !force && w.State == StateHidden {
		return
	}
	log.Debug("Window %d: %s -> %s (forced: %t)", w.ID, w.State, state, force)
	w.State = state
	switch state {
	case StateHidden:
		if err := r.x.UnmapWindow(w.ID); err != nil {
			log.Error("Failed to hide window %d: %s", w.ID, err)
		}
	case StatePopup:
		if err := r.x.MapWindow(w.ID); err != nil {
			log.Error("Failed to map window %d: %s", w.ID, err)
		}
		if err := r.x.RaiseWindow(w.ID); err != nil {
			log.Error("Failed to raise window %d: %s", w.ID, err)
		}
	default:
		if err := r.x.MapWindow(w.ID); err != nil {
			log.Error("Failed to map window %d: %s", w.ID, err)
		}
	}
}

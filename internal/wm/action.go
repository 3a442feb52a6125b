package wm

import (
	"os/exec"
	"syscall"

	"panewm/internal/cfg"
	"panewm/internal/log"
)

// Actions executes the operations bound to keys and buttons.
type Actions struct {
	x        xconn
	reg      *Registry
	monitors *MonitorSet

	// Callbacks into the run loop. Reload re-reads the configuration and
	// quit terminates the window manager.
	reload func()
	quit   func()
}

// NewActions creates an action executor.
func NewActions(x xconn, reg *Registry, monitors *MonitorSet, reload, quit func()) *Actions {
	return &Actions{x, reg, monitors, reload, quit}
}

// Execute performs a single bound action. The action is borrowed from the
// binding table for the duration of the call.
func (a *Actions) Execute(action cfg.Action) {
	log.Debug("Performing action: %s", action.Code)
	switch action.Code {
	case cfg.ActionReloadConfig:
		a.reload()
	case cfg.ActionQuit:
		a.quit()
	case cfg.ActionRun:
		runCommand(action.Param.Str)
	case cfg.ActionCloseWindow:
		if w := a.reg.Focused(); w != nil {
			if err := a.x.CloseWindow(w.ID); err != nil {
				log.Error("Failed to close window %d: %s", w.ID, err)
			}
		}
	case cfg.ActionMinimizeWindow:
		if w := a.reg.Focused(); w != nil {
			a.reg.SetState(w, StateHidden, true)
		}
	case cfg.ActionNextWindow:
		a.reg.CycleFocus(1)
	case cfg.ActionPreviousWindow:
		a.reg.CycleFocus(-1)
	case cfg.ActionToggleFullscreen:
		a.toggleFullscreen()
	case cfg.ActionResizeBy:
		a.resizeBy(action.Param.Quad)
	case cfg.ActionShowWindowList:
		a.showWindowList()
	case cfg.ActionMoveWindow:
		// Interactive moves are driven by the pointer grab in the event
		// dispatcher; there is nothing to do from a bind.
	default:
		log.Warn("Unhandled action: %s", action.Code)
	}
}

// runCommand spawns a shell command in its own session so that it outlives
// the window manager.
func runCommand(command string) {
	cmd := exec.Command("sh", "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		log.Error("Failed to run %q: %s", command, err)
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
}

// toggleFullscreen switches the focused window between fullscreen and its
// predicted state, sizing it to the primary output when entering fullscreen.
func (a *Actions) toggleFullscreen() {
	w := a.reg.Focused()
	if w == nil {
		return
	}
	if w.State == StateFullscreen {
		w.State = StateTiling
		a.reg.SetState(w, PredictState(w), true)
		return
	}
	mon := a.monitors.Primary()
	if mon == nil {
		log.Warn("No output to fullscreen window %d on", w.ID)
		return
	}
	a.reg.SetState(w, StateFullscreen, true)
	err := a.x.ConfigureWindow(w.ID, mon.X, mon.Y, mon.Width, mon.Height, 0)
	if err != nil {
		log.Error("Failed to fullscreen window %d: %s", w.ID, err)
	}
}

// resizeBy moves the edges of the focused window. The quad holds the
// outward deltas of the left, top, right and bottom edges; moving opposite
// edges by opposing amounts translates the window.
func (a *Actions) resizeBy(quad [4]int) {
	w := a.reg.Focused()
	if w == nil {
		return
	}
	geo, err := a.x.GetGeometry(w.ID)
	if err != nil {
		log.Error("Failed to get geometry of window %d: %s", w.ID, err)
		return
	}
	left, top, right, bottom := quad[0], quad[1], quad[2], quad[3]
	x := int(geo.X) - left
	y := int(geo.Y) - top
	width := int(geo.Width) + left + right
	height := int(geo.Height) + top + bottom
	if width < 1 || height < 1 {
		return
	}
	err = a.x.ConfigureWindow(w.ID, int16(x), int16(y), uint16(width), uint16(height), geo.BorderWidth)
	if err != nil {
		log.Error("Failed to resize window %d: %s", w.ID, err)
	}
}

// showWindowList logs the managed windows. A proper interactive list is a
// job for a frontend, not the event core.
func (a *Actions) showWindowList() {
	windows := a.reg.Windows()
	log.Info("%d managed windows:", len(windows))
	for _, w := range windows {
		log.Info("  %d [%s] %q", w.ID, w.State, w.Name)
	}
}

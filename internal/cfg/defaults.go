package cfg

import (
	"github.com/jezek/xgb/xproto"
	"golang.org/x/exp/slices"

	"panewm/internal/x11"
)

// defaultKeybind is one built-in keybind. Its modifiers are combined with the
// profile's main keyboard modifier when merged.
type defaultKeybind struct {
	mods   x11.Keymod
	flags  BindFlags
	sym    x11.Keysym
	action Action
}

// defaultButtonbind is one built-in mousebind. Its modifiers are combined
// with the profile's main mouse modifier when merged.
type defaultButtonbind struct {
	mods   x11.Keymod
	flags  BindFlags
	button xproto.Button
	action Action
}

// The built-in keybinds.
var defaultKeybinds = []defaultKeybind{
	// reload the configuration
	{x11.ModShift, 0, x11.KeyR, Action{Code: ActionReloadConfig}},

	// close the active window
	{0, 0, x11.KeyQ, Action{Code: ActionCloseWindow}},

	// minimize (hide) the active window
	{0, 0, x11.KeyMinus, Action{Code: ActionMinimizeWindow}},

	// go to the next/previous window
	{0, 0, x11.KeyN, Action{Code: ActionNextWindow}},
	{0, 0, x11.KeyP, Action{Code: ActionPreviousWindow}},

	// toggle between fullscreen and the previous mode
	{0, 0, x11.KeyF, Action{Code: ActionToggleFullscreen}},

	// resizing the top/left edges of a window
	{x11.ModCtrl, 0, x11.KeyLeft, Action{ActionResizeBy, Param{Quad: [4]int{20, 0, 0, 0}}}},
	{x11.ModCtrl, 0, x11.KeyUp, Action{ActionResizeBy, Param{Quad: [4]int{0, 20, 0, 0}}}},
	{x11.ModCtrl, 0, x11.KeyRight, Action{ActionResizeBy, Param{Quad: [4]int{-20, 0, 0, 0}}}},
	{x11.ModCtrl, 0, x11.KeyDown, Action{ActionResizeBy, Param{Quad: [4]int{0, -20, 0, 0}}}},

	// resizing the bottom/right edges of a window
	{x11.ModShift, 0, x11.KeyLeft, Action{ActionResizeBy, Param{Quad: [4]int{0, 0, -20, 0}}}},
	{x11.ModShift, 0, x11.KeyUp, Action{ActionResizeBy, Param{Quad: [4]int{0, 0, 0, -20}}}},
	{x11.ModShift, 0, x11.KeyRight, Action{ActionResizeBy, Param{Quad: [4]int{0, 0, 20, 0}}}},
	{x11.ModShift, 0, x11.KeyDown, Action{ActionResizeBy, Param{Quad: [4]int{0, 0, 0, 20}}}},

	// move a window
	{0, 0, x11.KeyLeft, Action{ActionResizeBy, Param{Quad: [4]int{20, 0, -20, 0}}}},
	{0, 0, x11.KeyUp, Action{ActionResizeBy, Param{Quad: [4]int{0, 20, 0, -20}}}},
	{0, 0, x11.KeyRight, Action{ActionResizeBy, Param{Quad: [4]int{-20, 0, 20, 0}}}},
	{0, 0, x11.KeyDown, Action{ActionResizeBy, Param{Quad: [4]int{0, -20, 0, 20}}}},

	// inflate/deflate a window
	{x11.ModCtrl, 0, x11.KeyPlus, Action{ActionResizeBy, Param{Quad: [4]int{10, 10, 10, 10}}}},
	{x11.ModCtrl, 0, x11.KeyMinus, Action{ActionResizeBy, Param{Quad: [4]int{-10, -10, -10, -10}}}},
	{x11.ModCtrl, 0, x11.KeyEqual, Action{ActionResizeBy, Param{Quad: [4]int{10, 10, 10, 10}}}},

	// show the window list
	{0, 0, x11.KeyW, Action{Code: ActionShowWindowList}},

	// run the terminal or xterm as fall back
	{0, 0, x11.KeyReturn, Action{ActionRun, Param{
		Str: `[ -n "$TERMINAL" ] && exec "$TERMINAL" || exec xterm`,
	}}},

	// quit panewm
	{x11.ModCtrl | x11.ModShift, 0, x11.KeyE, Action{Code: ActionQuit}},
}

// The built-in mousebinds.
var defaultButtonbinds = []defaultButtonbind{
	// start moving a window
	{0, 0, 1, Action{Code: ActionMoveWindow}},
	// minimize (hide) a window
	{0, 0, 2, Action{Code: ActionMinimizeWindow}},
	// close a window
	{0, 0, 3, Action{Code: ActionCloseWindow}},
}

// MergeDefaultKeybinds puts the built-in keybinds into the profile without
// overwriting any user keybind. Defaults whose effective trigger already
// exists are skipped; the rest are appended after the user's binds, in
// declaration order. Running the merge twice is a no-op.
func MergeDefaultKeybinds(conf *Profile) {
	prior := conf.Keyboard.Binds

	// Count the binds not defined yet.
	newCount := len(prior)
	for _, d := range defaultKeybinds {
		mods := d.mods | conf.Keyboard.Mod
		if prior.Find(mods, d.sym, d.flags) != nil {
			continue
		}
		newCount += 1
	}

	// Shortcut: no binds need to be added.
	if newCount == len(prior) {
		return
	}

	// Add the new binds after the already defined binds.
	binds := slices.Grow(prior, newCount-len(prior))
	for _, d := range defaultKeybinds {
		mods := d.mods | conf.Keyboard.Mod
		if prior.Find(mods, d.sym, d.flags) != nil {
			continue
		}
		binds = append(binds, Keybind{
			Mods:    mods,
			Sym:     d.sym,
			Flags:   d.flags,
			Actions: cloneActions([]Action{d.action}),
		})
	}
	conf.Keyboard.Binds = binds
}

// MergeDefaultButtonbinds puts the built-in mousebinds into the profile
// without overwriting any user mousebind.
func MergeDefaultButtonbinds(conf *Profile) {
	prior := conf.Mouse.Binds

	// Count the binds not defined yet.
	newCount := len(prior)
	for _, d := range defaultButtonbinds {
		mods := d.mods | conf.Mouse.Mod
		if prior.Find(mods, d.button, d.flags) != nil {
			continue
		}
		newCount += 1
	}

	// Shortcut: no binds need to be added.
	if newCount == len(prior) {
		return
	}

	// Add the new binds after the already defined binds.
	binds := slices.Grow(prior, newCount-len(prior))
	for _, d := range defaultButtonbinds {
		mods := d.mods | conf.Mouse.Mod
		if prior.Find(mods, d.button, d.flags) != nil {
			continue
		}
		binds = append(binds, Buttonbind{
			Mods:    mods,
			Button:  d.button,
			Flags:   d.flags,
			Actions: cloneActions([]Action{d.action}),
		})
	}
	conf.Mouse.Binds = binds
}

package wm

import (
	"errors"
	"testing"

	"github.com/jezek/xgb/xproto"

	"panewm/internal/cfg"
	"panewm/internal/x11"
)

type move struct {
	win xproto.Window
	x   int16
	y   int16
}

type configure struct {
	win xproto.Window
	x   int16
	y   int16
	w   uint16
	h   uint16
	bw  uint16
}

// fakeConn records every request the window manager core makes.
type fakeConn struct {
	geom      map[xproto.Window]x11.Geometry
	titles    map[xproto.Window]string
	sizeHints map[xproto.Window]x11.SizeHints
	wmHints   map[xproto.Window]x11.WmHints

	moves      []move
	configures []configure
	mapped     []xproto.Window
	unmapped   []xproto.Window
	raised     []xproto.Window
	closed     []xproto.Window
	focused    xproto.Window

	pointerGrabbed bool
	ungrabs        int
	grabErr        error
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		geom:      make(map[xproto.Window]x11.Geometry),
		titles:    make(map[xproto.Window]string),
		sizeHints: make(map[xproto.Window]x11.SizeHints),
		wmHints:   make(map[xproto.Window]x11.WmHints),
	}
}

func (f *fakeConn) GetGeometry(win xproto.Window) (x11.Geometry, error) {
	geo, ok := f.geom[win]
	if !ok {
		return x11.Geometry{}, errors.New("no such window")
	}
	return geo, nil
}

func (f *fakeConn) MoveWindow(win xproto.Window, x, y int16) error {
	f.moves = append(f.moves, move{win, x, y})
	geo := f.geom[win]
	geo.X, geo.Y = x, y
	f.geom[win] = geo
	return nil
}

func (f *fakeConn) ConfigureWindow(win xproto.Window, x, y int16, w, h, bw uint16) error {
	f.configures = append(f.configures, configure{win, x, y, w, h, bw})
	return nil
}

func (f *fakeConn) RaiseWindow(win xproto.Window) error {
	f.raised = append(f.raised, win)
	return nil
}

func (f *fakeConn) MapWindow(win xproto.Window) error {
	f.mapped = append(f.mapped, win)
	return nil
}

func (f *fakeConn) UnmapWindow(win xproto.Window) error {
	f.unmapped = append(f.unmapped, win)
	return nil
}

func (f *fakeConn) SetInputFocus(win xproto.Window) error {
	f.focused = win
	return nil
}

func (f *fakeConn) GrabPointer() error {
	if f.grabErr != nil {
		return f.grabErr
	}
	f.pointerGrabbed = true
	return nil
}

func (f *fakeConn) UngrabPointer() error {
	f.pointerGrabbed = false
	f.ungrabs += 1
	return nil
}

func (f *fakeConn) CloseWindow(win xproto.Window) error {
	f.closed = append(f.closed, win)
	return nil
}

func (f *fakeConn) GetWindowTitle(win xproto.Window) (string, error) {
	title, ok := f.titles[win]
	if !ok {
		return "", errors.New("no title")
	}
	return title, nil
}

func (f *fakeConn) GetSizeHints(win xproto.Window) (x11.SizeHints, error) {
	hints, ok := f.sizeHints[win]
	if !ok {
		return x11.SizeHints{}, errors.New("no size hints")
	}
	return hints, nil
}

func (f *fakeConn) GetWmHints(win xproto.Window) (x11.WmHints, error) {
	hints, ok := f.wmHints[win]
	if !ok {
		return x11.WmHints{}, errors.New("no WM hints")
	}
	return hints, nil
}

// fakeKeys is a fixed keycode to keysym mapping.
type fakeKeys map[xproto.Keycode]x11.Keysym

func (f fakeKeys) Keysym(code xproto.Keycode) x11.Keysym {
	return f[code]
}

// popupHints pins a window to a single size, making it a popup.
var popupHints = x11.SizeHints{
	Flags:    x11.HintMinSize | x11.HintMaxSize,
	MinWidth: 300, MinHeight: 200,
	MaxWidth: 300, MaxHeight: 200,
}

type testEnv struct {
	conn       *fakeConn
	reg        *Registry
	monitors   *MonitorSet
	disp       *Dispatcher
	enumerates int
	reloads    int
	quits      int
}

func newTestEnv(conf *cfg.Profile, keys fakeKeys, randrBase uint8) *testEnv {
	env := &testEnv{
		conn:     newFakeConn(),
		monitors: &MonitorSet{},
	}
	env.reg = NewRegistry(env.conn)
	enumerate := func() ([]x11.Output, error) {
		env.enumerates += 1
		return []x11.Output{{Name: "DP-1", Width: 1920, Height: 1080}}, nil
	}
	acts := NewActions(
		env.conn, env.reg, env.monitors,
		func() { env.reloads += 1 },
		func() { env.quits += 1 },
	)
	env.disp = NewDispatcher(env.conn, env.reg, env.monitors, acts, conf, keys, enumerate, randrBase)
	return env
}

func TestDispatchExtensionPrecedence(t *testing.T) {
	// The extension base can land on top of a core event code. The extension
	// classification has to win.
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, xproto.MapRequest)
	env.disp.Dispatch(x11.Event{
		Code: xproto.MapRequest,
		Data: xproto.MapRequestEvent{Window: 7},
	})
	if env.enumerates != 1 {
		t.Fatalf("got %d enumerations, want 1", env.enumerates)
	}
	if env.reg.Get(7) != nil {
		t.Fatal("event handled as a map request")
	}
	if len(env.monitors.Monitors()) != 1 {
		t.Fatalf("got %d monitors, want 1", len(env.monitors.Monitors()))
	}

	// Every code at or above the base belongs to the extension.
	env.disp.Dispatch(x11.Event{Code: xproto.MapRequest + 1})
	if env.enumerates != 2 {
		t.Fatalf("got %d enumerations, want 2", env.enumerates)
	}
}

func TestDispatchWithoutExtension(t *testing.T) {
	// With no extension base, high event codes mean nothing.
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 0)
	env.disp.Dispatch(x11.Event{Code: 120})
	if env.enumerates != 0 {
		t.Fatal("unclaimed event treated as screen change")
	}
}

func TestMapRequest(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	env.conn.titles[7] = "editor"
	env.disp.Dispatch(x11.Event{
		Code: xproto.MapRequest,
		Data: xproto.MapRequestEvent{Window: 7},
	})
	w := env.reg.Get(7)
	if w == nil {
		t.Fatal("window not managed")
	}
	if w.Name != "editor" {
		t.Errorf("got name %q, want %q", w.Name, "editor")
	}
	if w.State != StateTiling {
		t.Errorf("got state %s, want tiling", w.State)
	}
	if env.conn.focused != 7 {
		t.Error("window not focused")
	}

	// A second request for the same window changes nothing.
	env.disp.Dispatch(x11.Event{
		Code: xproto.MapRequest,
		Data: xproto.MapRequestEvent{Window: 7},
	})
	if len(env.reg.Windows()) != 1 {
		t.Fatalf("got %d managed windows, want 1", len(env.reg.Windows()))
	}
}

func TestPointerMove(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	env.conn.sizeHints[5] = popupHints
	env.conn.geom[5] = x11.Geometry{X: 100, Y: 200, Width: 300, Height: 200}
	env.reg.Manage(5)

	env.disp.Dispatch(x11.Event{
		Code: xproto.ButtonPress,
		Data: xproto.ButtonPressEvent{Child: 5, RootX: 10, RootY: 30},
	})
	if !env.disp.Grabbing() {
		t.Fatal("press over popup did not start a move")
	}
	if !env.conn.pointerGrabbed {
		t.Fatal("pointer not grabbed")
	}
	// The recorded start position tracks the vertical coordinate twice.
	if env.disp.grab.start != (point{30, 30}) {
		t.Errorf("got start %v, want {30 30}", env.disp.grab.start)
	}
	if env.disp.grab.lastMouse != (point{10, 30}) {
		t.Errorf("got last mouse %v, want {10 30}", env.disp.grab.lastMouse)
	}

	env.disp.Dispatch(x11.Event{
		Code: xproto.MotionNotify,
		Data: xproto.MotionNotifyEvent{RootX: 15, RootY: 25},
	})
	if len(env.conn.moves) != 1 || env.conn.moves[0] != (move{5, 105, 195}) {
		t.Fatalf("got moves %v, want [{5 105 195}]", env.conn.moves)
	}

	// Motion deltas are relative to the previous event, not the start.
	env.disp.Dispatch(x11.Event{
		Code: xproto.MotionNotify,
		Data: xproto.MotionNotifyEvent{RootX: 15, RootY: 35},
	})
	if len(env.conn.moves) != 2 || env.conn.moves[1] != (move{5, 105, 205}) {
		t.Fatalf("got moves %v, want second {5 105 205}", env.conn.moves)
	}

	env.disp.Dispatch(x11.Event{Code: xproto.ButtonRelease})
	if env.disp.Grabbing() || env.conn.pointerGrabbed {
		t.Fatal("release did not end the move")
	}

	// Stray motion after the release moves nothing.
	env.disp.Dispatch(x11.Event{
		Code: xproto.MotionNotify,
		Data: xproto.MotionNotifyEvent{RootX: 50, RootY: 50},
	})
	if len(env.conn.moves) != 2 {
		t.Fatal("motion without a grab moved a window")
	}
}

func TestPointerMoveOnlyPopups(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	env.reg.Manage(6) // No size hints: a tiling window.
	env.disp.Dispatch(x11.Event{
		Code: xproto.ButtonPress,
		Data: xproto.ButtonPressEvent{Child: 6, RootX: 1, RootY: 2},
	})
	if env.disp.Grabbing() {
		t.Fatal("press over tiling window started a move")
	}

	env.disp.Dispatch(x11.Event{
		Code: xproto.ButtonPress,
		Data: xproto.ButtonPressEvent{Child: 99, RootX: 1, RootY: 2},
	})
	if env.disp.Grabbing() {
		t.Fatal("press over unknown window started a move")
	}
}

func TestPointerMoveWindowVanishes(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	env.conn.sizeHints[5] = popupHints
	env.conn.geom[5] = x11.Geometry{X: 100, Y: 200}
	env.reg.Manage(5)
	env.disp.Dispatch(x11.Event{
		Code: xproto.ButtonPress,
		Data: xproto.ButtonPressEvent{Child: 5, RootX: 10, RootY: 30},
	})
	if !env.disp.Grabbing() {
		t.Fatal("move did not start")
	}

	delete(env.conn.geom, 5)
	env.disp.Dispatch(x11.Event{
		Code: xproto.MotionNotify,
		Data: xproto.MotionNotifyEvent{RootX: 15, RootY: 25},
	})
	if env.disp.Grabbing() {
		t.Fatal("grab survived the window vanishing")
	}
	if env.conn.pointerGrabbed {
		t.Fatal("pointer still grabbed")
	}
	if len(env.conn.moves) != 0 {
		t.Fatal("vanished window was moved")
	}
}

func TestButtonReleaseWithoutGrab(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	env.disp.Dispatch(x11.Event{Code: xproto.ButtonRelease})
	if env.disp.Grabbing() {
		t.Fatal("release created a grab")
	}
	if env.conn.ungrabs != 1 {
		t.Fatal("pointer not ungrabbed")
	}
}

func TestConfigureRequest(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)

	// An unmanaged window gets exactly what it asked for.
	env.disp.Dispatch(x11.Event{
		Code: xproto.ConfigureRequest,
		Data: xproto.ConfigureRequestEvent{
			Window: 7, X: 1, Y: 2, Width: 300, Height: 400, BorderWidth: 5,
		},
	})
	want := configure{7, 1, 2, 300, 400, 5}
	if len(env.conn.configures) != 1 || env.conn.configures[0] != want {
		t.Fatalf("got configures %v, want [%v]", env.conn.configures, want)
	}

	// Managed windows are laid out by the window manager instead.
	env.reg.Manage(8)
	env.conn.configures = nil
	env.disp.Dispatch(x11.Event{
		Code: xproto.ConfigureRequest,
		Data: xproto.ConfigureRequestEvent{Window: 8, Width: 1, Height: 1},
	})
	if len(env.conn.configures) != 0 {
		t.Fatal("configure request of managed window was honored")
	}
}

func TestPropertyNotify(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	env.conn.titles[7] = "before"
	w := env.reg.Manage(7)

	env.conn.titles[7] = "after"
	env.disp.Dispatch(x11.Event{
		Code: xproto.PropertyNotify,
		Data: xproto.PropertyNotifyEvent{Window: 7, Atom: xproto.AtomWmName},
	})
	if w.Name != "after" {
		t.Errorf("got name %q, want %q", w.Name, "after")
	}

	// Untracked windows are ignored.
	env.disp.Dispatch(x11.Event{
		Code: xproto.PropertyNotify,
		Data: xproto.PropertyNotifyEvent{Window: 99, Atom: xproto.AtomWmName},
	})

	// A property change does not bring a hidden window back.
	env.reg.SetState(w, StateHidden, true)
	env.disp.Dispatch(x11.Event{
		Code: xproto.PropertyNotify,
		Data: xproto.PropertyNotifyEvent{Window: 7, Atom: xproto.AtomWmName},
	})
	if w.State != StateHidden {
		t.Errorf("got state %s, want hidden", w.State)
	}
}

func TestUnmapNotify(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	w := env.reg.Manage(7)
	if w.State != StateTiling {
		t.Fatalf("got state %s, want tiling", w.State)
	}
	env.disp.Dispatch(x11.Event{
		Code: xproto.UnmapNotify,
		Data: xproto.UnmapNotifyEvent{Window: 7},
	})
	if w.State != StateHidden {
		t.Errorf("got state %s, want hidden", w.State)
	}
}

func TestDestroyNotify(t *testing.T) {
	env := newTestEnv(&cfg.Profile{}, fakeKeys{}, 100)
	env.reg.Manage(7)
	env.disp.Dispatch(x11.Event{
		Code: xproto.DestroyNotify,
		Data: xproto.DestroyNotifyEvent{Window: 7},
	})
	if env.reg.Get(7) != nil {
		t.Fatal("destroyed window still tracked")
	}

	// A destroy for an unknown window is harmless.
	env.disp.Dispatch(x11.Event{
		Code: xproto.DestroyNotify,
		Data: xproto.DestroyNotifyEvent{Window: 99},
	})
}

func TestKeyRouting(t *testing.T) {
	conf := &cfg.Profile{}
	conf.Keyboard.IgnoreMod = x11.ModLock | x11.Mod2
	conf.Keyboard.Binds = cfg.Keybinds{
		{
			Mods:    x11.ModCtrl,
			Sym:     x11.KeyQ,
			Actions: []cfg.Action{{Code: cfg.ActionQuit}},
		},
		{
			Sym:     x11.KeyW,
			Flags:   cfg.FlagRelease,
			Actions: []cfg.Action{{Code: cfg.ActionReloadConfig}},
		},
	}
	keys := fakeKeys{24: x11.KeyQ, 25: x11.KeyW}
	env := newTestEnv(conf, keys, 100)

	// Ignored modifiers are stripped before matching.
	env.disp.Dispatch(x11.Event{
		Code: xproto.KeyPress,
		Data: xproto.KeyPressEvent{Detail: 24, State: uint16(x11.ModCtrl | x11.Mod2)},
	})
	if env.quits != 1 {
		t.Fatalf("got %d quits, want 1", env.quits)
	}

	// Extra real modifiers make the trigger miss.
	env.disp.Dispatch(x11.Event{
		Code: xproto.KeyPress,
		Data: xproto.KeyPressEvent{Detail: 24, State: uint16(x11.ModCtrl | x11.ModShift)},
	})
	if env.quits != 1 {
		t.Fatalf("got %d quits, want 1", env.quits)
	}

	// Release binds fire on key release only.
	env.disp.Dispatch(x11.Event{
		Code: xproto.KeyPress,
		Data: xproto.KeyPressEvent{Detail: 25},
	})
	if env.reloads != 0 {
		t.Fatal("release bind fired on press")
	}
	env.disp.Dispatch(x11.Event{
		Code: xproto.KeyRelease,
		Data: xproto.KeyReleaseEvent{Detail: 25},
	})
	if env.reloads != 1 {
		t.Fatalf("got %d reloads, want 1", env.reloads)
	}
}

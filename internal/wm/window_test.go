package wm

import (
	"testing"

	"panewm/internal/x11"
)

func TestPredictState(t *testing.T) {
	cases := []struct {
		name   string
		window Window
		want   WindowState
	}{
		{
			"plain window tiles",
			Window{},
			StateTiling,
		},
		{
			"iconic start hides",
			Window{WmHints: x11.WmHints{Flags: x11.HintState, InitialState: x11.StateIconic}},
			StateHidden,
		},
		{
			"fixed size floats",
			Window{SizeHints: popupHints},
			StatePopup,
		},
		{
			"fullscreen sticks",
			Window{State: StateFullscreen},
			StateFullscreen,
		},
		{
			"resizable range tiles",
			Window{SizeHints: x11.SizeHints{
				Flags:    x11.HintMinSize | x11.HintMaxSize,
				MinWidth: 100, MinHeight: 100,
				MaxWidth: 500, MaxHeight: 500,
			}},
			StateTiling,
		},
		{
			"min size alone tiles",
			Window{SizeHints: x11.SizeHints{
				Flags:    x11.HintMinSize,
				MinWidth: 300, MinHeight: 200,
			}},
			StateTiling,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := PredictState(&tc.window); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestSetState(t *testing.T) {
	conn := newFakeConn()
	reg := NewRegistry(conn)
	w := reg.Manage(1)
	if w.State != StateTiling {
		t.Fatalf("got state %s, want tiling", w.State)
	}

	// Same state changes nothing.
	mapsBefore := len(conn.mapped)
	reg.SetState(w, StateTiling, false)
	if len(conn.mapped) != mapsBefore {
		t.Error("no-op state change mapped the window")
	}

	// A hidden window refuses non-forced changes.
	reg.SetState(w, StateHidden, true)
	if len(conn.unmapped) != 1 {
		t.Fatal("window not unmapped")
	}
	reg.SetState(w, StateTiling, false)
	if w.State != StateHidden {
		t.Errorf("got state %s, want hidden", w.State)
	}

	// Forcing brings it back.
	reg.SetState(w, StateTiling, true)
	if w.State != StateTiling {
		t.Errorf("got state %s, want tiling", w.State)
	}

	// Popups get raised on top.
	reg.SetState(w, StatePopup, true)
	if len(conn.raised) == 0 {
		t.Error("popup not raised")
	}
}

func TestCycleFocus(t *testing.T) {
	conn := newFakeConn()
	reg := NewRegistry(conn)
	a := reg.Manage(1)
	b := reg.Manage(2)
	reg.Manage(3)
	reg.Focus(a)

	reg.CycleFocus(1)
	if conn.focused != 2 {
		t.Fatalf("got focus %d, want 2", conn.focused)
	}

	// Hidden windows are skipped.
	reg.SetState(b, StateHidden, true)
	reg.CycleFocus(1)
	if conn.focused != 1 {
		t.Fatalf("got focus %d, want 1", conn.focused)
	}
	reg.CycleFocus(-1)
	if conn.focused != 3 {
		t.Fatalf("got focus %d, want 3", conn.focused)
	}
}

func TestCycleFocusEmpty(t *testing.T) {
	conn := newFakeConn()
	reg := NewRegistry(conn)
	reg.CycleFocus(1)
	if conn.focused != 0 {
		t.Fatal("focus changed with no windows")
	}
}

func TestForget(t *testing.T) {
	conn := newFakeConn()
	reg := NewRegistry(conn)
	w := reg.Manage(1)
	reg.Manage(2)
	reg.Focus(w)

	reg.Forget(1)
	if reg.Get(1) != nil {
		t.Fatal("forgotten window still tracked")
	}
	if reg.Focused() != nil {
		t.Fatal("forgotten window still focused")
	}
	if len(reg.Windows()) != 1 {
		t.Fatalf("got %d windows, want 1", len(reg.Windows()))
	}

	// Forgetting twice is harmless.
	reg.Forget(1)
}

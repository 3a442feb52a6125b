package x11

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestModifierCombos(t *testing.T) {
	combos := modifierCombos(ModCtrl, ModLock|Mod2)
	if len(combos) != 4 {
		t.Fatalf("got %d combos, want 4", len(combos))
	}
	got := make(map[uint16]bool, len(combos))
	for _, combo := range combos {
		got[combo] = true
	}
	for _, want := range []Keymod{
		ModCtrl,
		ModCtrl | ModLock,
		ModCtrl | Mod2,
		ModCtrl | ModLock | Mod2,
	} {
		if !got[uint16(want)] {
			t.Errorf("missing combo %#x", want)
		}
	}
}

func TestModifierCombosNoIgnore(t *testing.T) {
	combos := modifierCombos(ModShift, 0)
	if len(combos) != 1 || combos[0] != uint16(ModShift) {
		t.Fatalf("got %v, want [shift]", combos)
	}
}

func TestKeymapLookup(t *testing.T) {
	m := Keymap{
		min: 8,
		per: 2,
		syms: []Keysym{
			KeyA, KeyA - 0x20,
			KeyB, KeyB - 0x20,
			KeyA, KeyA - 0x20,
		},
	}
	if got := m.Keysym(8); got != KeyA {
		t.Errorf("got %#x, want a", got)
	}
	if got := m.Keysym(9); got != KeyB {
		t.Errorf("got %#x, want b", got)
	}
	if got := m.Keysym(7); got != 0 {
		t.Errorf("got %#x for keycode below range, want 0", got)
	}
	if got := m.Keysym(11); got != 0 {
		t.Errorf("got %#x for keycode above range, want 0", got)
	}

	codes := m.Keycodes(KeyA)
	if len(codes) != 2 || codes[0] != 8 || codes[1] != 10 {
		t.Errorf("got keycodes %v, want [8 10]", codes)
	}
	if codes := m.Keycodes(KeyZ); len(codes) != 0 {
		t.Errorf("got keycodes %v for unmapped symbol, want none", codes)
	}
}

func TestKeymodUnmarshalTOML(t *testing.T) {
	var mod Keymod
	if err := mod.UnmarshalTOML("shift-mod4"); err != nil {
		t.Fatal(err)
	}
	if mod != ModShift|Mod4 {
		t.Fatalf("got %#x, want shift-mod4", mod)
	}

	mod = 0
	if err := mod.UnmarshalTOML(""); err != nil {
		t.Fatal(err)
	}
	if mod != ModNone {
		t.Fatalf("got %#x, want none", mod)
	}

	mod = 0
	if err := mod.UnmarshalTOML("bogus"); err == nil {
		t.Fatal("bogus modifier accepted")
	}
	if err := mod.UnmarshalTOML(42); err == nil {
		t.Fatal("non-string value accepted")
	}
}

func TestParseNames(t *testing.T) {
	if sym, ok := ParseKeysym("return"); !ok || sym != KeyReturn {
		t.Errorf("got %#x, want return keysym", sym)
	}
	if _, ok := ParseKeysym("bogus"); ok {
		t.Error("bogus keysym accepted")
	}
	if mod, ok := ParseKeymod("ctrl"); !ok || mod != ModCtrl {
		t.Errorf("got %#x, want ctrl", mod)
	}
	if button, ok := ParseButton("mouse3"); !ok || button != xproto.Button(3) {
		t.Errorf("got button %d, want 3", button)
	}
	if name := KeysymName(KeyEscape); name != "escape" {
		t.Errorf("got name %q, want escape", name)
	}
}

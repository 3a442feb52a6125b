package x11

import (
	"errors"

	"github.com/jezek/xgb/xproto"
)

var ErrConnectionDied = errors.New("connection died")

// Key symbols, as assigned in the X11 keysym definitions.
const (
	KeySpace  Keysym = 0x0020
	KeyPlus   Keysym = 0x002b
	KeyMinus  Keysym = 0x002d
	KeyEqual  Keysym = 0x003d
	Key0      Keysym = 0x0030
	Key1      Keysym = 0x0031
	Key2      Keysym = 0x0032
	Key3      Keysym = 0x0033
	Key4      Keysym = 0x0034
	Key5      Keysym = 0x0035
	Key6      Keysym = 0x0036
	Key7      Keysym = 0x0037
	Key8      Keysym = 0x0038
	Key9      Keysym = 0x0039
	KeyA      Keysym = 0x0061
	KeyB      Keysym = 0x0062
	KeyC      Keysym = 0x0063
	KeyD      Keysym = 0x0064
	KeyE      Keysym = 0x0065
	KeyF      Keysym = 0x0066
	KeyG      Keysym = 0x0067
	KeyH      Keysym = 0x0068
	KeyI      Keysym = 0x0069
	KeyJ      Keysym = 0x006a
	KeyK      Keysym = 0x006b
	KeyL      Keysym = 0x006c
	KeyM      Keysym = 0x006d
	KeyN      Keysym = 0x006e
	KeyO      Keysym = 0x006f
	KeyP      Keysym = 0x0070
	KeyQ      Keysym = 0x0071
	KeyR      Keysym = 0x0072
	KeyS      Keysym = 0x0073
	KeyT      Keysym = 0x0074
	KeyU      Keysym = 0x0075
	KeyV      Keysym = 0x0076
	KeyW      Keysym = 0x0077
	KeyX      Keysym = 0x0078
	KeyY      Keysym = 0x0079
	KeyZ      Keysym = 0x007a
	KeyBack   Keysym = 0xff08
	KeyTab    Keysym = 0xff09
	KeyReturn Keysym = 0xff0d
	KeyEscape Keysym = 0xff1b
	KeyLeft   Keysym = 0xff51
	KeyUp     Keysym = 0xff52
	KeyRight  Keysym = 0xff53
	KeyDown   Keysym = 0xff54
	KeyF1     Keysym = 0xffbe
	KeyF2     Keysym = 0xffbf
	KeyF3     Keysym = 0xffc0
	KeyF4     Keysym = 0xffc1
	KeyF5     Keysym = 0xffc2
	KeyF6     Keysym = 0xffc3
	KeyF7     Keysym = 0xffc4
	KeyF8     Keysym = 0xffc5
	KeyF9     Keysym = 0xffc6
	KeyF10    Keysym = 0xffc7
	KeyF11    Keysym = 0xffc8
	KeyF12    Keysym = 0xffc9
)

var mods = map[string]Keymod{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     Mod1,
	"super":   Mod4,
	"mod1":    Mod1,
	"mod2":    Mod2,
	"mod3":    Mod3,
	"mod4":    Mod4,
	"mod5":    Mod5,
	"modlock": ModLock,
}

var keysyms = map[string]Keysym{
	"a":         KeyA,
	"b":         KeyB,
	"c":         KeyC,
	"d":         KeyD,
	"e":         KeyE,
	"f":         KeyF,
	"g":         KeyG,
	"h":         KeyH,
	"i":         KeyI,
	"j":         KeyJ,
	"k":         KeyK,
	"l":         KeyL,
	"m":         KeyM,
	"n":         KeyN,
	"o":         KeyO,
	"p":         KeyP,
	"q":         KeyQ,
	"r":         KeyR,
	"s":         KeyS,
	"t":         KeyT,
	"u":         KeyU,
	"v":         KeyV,
	"w":         KeyW,
	"x":         KeyX,
	"y":         KeyY,
	"z":         KeyZ,
	"0":         Key0,
	"1":         Key1,
	"2":         Key2,
	"3":         Key3,
	"4":         Key4,
	"5":         Key5,
	"6":         Key6,
	"7":         Key7,
	"8":         Key8,
	"9":         Key9,
	"space":     KeySpace,
	"plus":      KeyPlus,
	"minus":     KeyMinus,
	"equal":     KeyEqual,
	"tab":       KeyTab,
	"return":    KeyReturn,
	"escape":    KeyEscape,
	"backspace": KeyBack,
	"left":      KeyLeft,
	"up":        KeyUp,
	"right":     KeyRight,
	"down":      KeyDown,
	"f1":        KeyF1,
	"f2":        KeyF2,
	"f3":        KeyF3,
	"f4":        KeyF4,
	"f5":        KeyF5,
	"f6":        KeyF6,
	"f7":        KeyF7,
	"f8":        KeyF8,
	"f9":        KeyF9,
	"f10":       KeyF10,
	"f11":       KeyF11,
	"f12":       KeyF12,
}

var buttons = map[string]xproto.Button{
	"mouse1": 1,
	"mouse2": 2,
	"mouse3": 3,
	"mouse4": 4,
	"mouse5": 5,
	"lmb":    1,
	"mmb":    2,
	"rmb":    3,
}

// ParseKeysym returns the keysym with the given name, if any.
func ParseKeysym(name string) (Keysym, bool) {
	sym, ok := keysyms[name]
	return sym, ok
}

// ParseKeymod returns the modifier with the given name, if any.
func ParseKeymod(name string) (Keymod, bool) {
	mod, ok := mods[name]
	return mod, ok
}

// ParseButton returns the pointer button with the given name, if any.
func ParseButton(name string) (xproto.Button, bool) {
	button, ok := buttons[name]
	return button, ok
}

// KeysymName returns the configuration name of the given keysym, or an empty
// string if the keysym has no name.
func KeysymName(sym Keysym) string {
	for name, s := range keysyms {
		if s == sym {
			return name
		}
	}
	return ""
}

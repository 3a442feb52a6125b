package cfg

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jezek/xgb/xproto"
	"golang.org/x/exp/slices"

	"panewm/internal/x11"
)

// BindFlags alter when a bind fires.
type BindFlags uint16

const (
	// FlagRelease makes the bind fire on key release instead of key press.
	FlagRelease BindFlags = 1 << 0
)

// Keybind binds a (modifiers, key symbol, flags) trigger to a list of
// actions. The bind owns its action list.
type Keybind struct {
	Mods    x11.Keymod
	Sym     x11.Keysym
	Flags   BindFlags
	Actions []Action

	// String representation.
	str string
}

// Buttonbind binds a (modifiers, pointer button, flags) trigger to a list of
// actions.
type Buttonbind struct {
	Mods    x11.Keymod
	Button  xproto.Button
	Flags   BindFlags
	Actions []Action

	str string
}

// Keybinds is the ordered key binding table. New entries are always appended
// after existing ones; no two entries share a trigger.
type Keybinds []Keybind

// Buttonbinds is the ordered button binding table.
type Buttonbinds []Buttonbind

// Action argument parsing regex
var actionRegexp = regexp.MustCompile(`^([a-z_]+)\((.*)\)$`)

// trigger is an intermediate parse result for a bind string: modifiers plus
// either a key symbol or a pointer button.
type trigger struct {
	mods   x11.Keymod
	flags  BindFlags
	sym    *x11.Keysym
	button *xproto.Button
}

// parseTrigger parses a bind string like "shift-mod4-r" or "mouse2" into its
// trigger components.
func parseTrigger(str string) (trigger, error) {
	var t trigger
	for _, split := range strings.Split(str, "-") {
		split = strings.ToLower(split)
		if split == "release" {
			t.flags |= FlagRelease
			continue
		}
		if mod, ok := x11.ParseKeymod(split); ok {
			t.mods |= mod
		} else if sym, ok := x11.ParseKeysym(split); ok {
			if t.sym != nil {
				return trigger{}, errors.New("more than one key")
			}
			sym := sym
			t.sym = &sym
		} else if button, ok := x11.ParseButton(split); ok {
			if t.button != nil {
				return trigger{}, errors.New("more than one button")
			}
			button := button
			t.button = &button
		} else {
			return trigger{}, fmt.Errorf("unrecognized bind element %q", split)
		}
	}
	if t.sym != nil && t.button != nil {
		return trigger{}, errors.New("can only use one key or button per bind")
	}
	if t.sym == nil && t.button == nil {
		return trigger{}, errors.New("bind has no key or button")
	}
	return t, nil
}

// parseAction parses a single action string, e.g. "close_window",
// "resize_by(20,0,0,0)" or "run(xterm)".
func parseAction(str string) (Action, error) {
	name, args := str, ""
	if match := actionRegexp.FindStringSubmatch(str); match != nil {
		name, args = match[1], match[2]
	}
	code, ok := actionNames[name]
	if !ok {
		return Action{}, fmt.Errorf("invalid action %q", str)
	}
	action := Action{Code: code}
	switch ParamKindOf(code) {
	case ParamNone:
		if args != "" {
			return Action{}, fmt.Errorf("action %q takes no argument", name)
		}
	case ParamQuad:
		parts := strings.Split(args, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return Action{}, fmt.Errorf("action %q needs 3 or 4 numbers", name)
		}
		for i, part := range parts {
			num, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return Action{}, fmt.Errorf("failed to parse number in %q", str)
			}
			action.Param.Quad[i] = num
		}
	case ParamString:
		if args == "" {
			return Action{}, fmt.Errorf("action %q needs an argument", name)
		}
		action.Param.Str = args
	}
	return action, nil
}

// parseActions parses an action list value from the configuration.
func parseActions(value any) ([]Action, error) {
	raw, ok := value.([]any)
	if !ok {
		return nil, errors.New("action list was not a string array")
	}
	if len(raw) == 0 {
		return nil, errors.New("empty action list")
	}
	actions := make([]Action, 0, len(raw))
	for _, elem := range raw {
		str, ok := elem.(string)
		if !ok {
			return nil, errors.New("action list contained non-string value")
		}
		action, err := parseAction(str)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

// sortedBindKeys returns the bind strings of a TOML table in a stable order.
func sortedBindKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// UnmarshalTOML implements toml.Unmarshaler.
func (k *Keybinds) UnmarshalTOML(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return errors.New("bindings value was not a map")
	}
	*k = make(Keybinds, 0, len(m))
	for _, bindStr := range sortedBindKeys(m) {
		t, err := parseTrigger(bindStr)
		if err != nil {
			return fmt.Errorf("parse bind %q: %w", bindStr, err)
		}
		if t.sym == nil {
			return fmt.Errorf("bind %q: mouse buttons belong in the mouse table", bindStr)
		}
		actions, err := parseActions(m[bindStr])
		if err != nil {
			return fmt.Errorf("parse actions of %q: %w", bindStr, err)
		}
		if k.Find(t.mods, *t.sym, t.flags) != nil {
			return fmt.Errorf("duplicate bind %q", bindStr)
		}
		*k = append(*k, Keybind{
			Mods:    t.mods,
			Sym:     *t.sym,
			Flags:   t.flags,
			Actions: actions,
			str:     bindStr,
		})
	}
	return nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (b *Buttonbinds) UnmarshalTOML(value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return errors.New("bindings value was not a map")
	}
	*b = make(Buttonbinds, 0, len(m))
	for _, bindStr := range sortedBindKeys(m) {
		t, err := parseTrigger(bindStr)
		if err != nil {
			return fmt.Errorf("parse bind %q: %w", bindStr, err)
		}
		if t.button == nil {
			return fmt.Errorf("bind %q: keys belong in the keyboard table", bindStr)
		}
		actions, err := parseActions(m[bindStr])
		if err != nil {
			return fmt.Errorf("parse actions of %q: %w", bindStr, err)
		}
		if b.Find(t.mods, *t.button, t.flags) != nil {
			return fmt.Errorf("duplicate bind %q", bindStr)
		}
		*b = append(*b, Buttonbind{
			Mods:    t.mods,
			Button:  *t.button,
			Flags:   t.flags,
			Actions: actions,
			str:     bindStr,
		})
	}
	return nil
}

// Find returns the bind with the exact trigger, or nil.
func (k Keybinds) Find(mods x11.Keymod, sym x11.Keysym, flags BindFlags) *Keybind {
	for i := range k {
		if k[i].Mods == mods && k[i].Sym == sym && k[i].Flags == flags {
			return &k[i]
		}
	}
	return nil
}

// Find returns the bind with the exact trigger, or nil.
func (b Buttonbinds) Find(mods x11.Keymod, button xproto.Button, flags BindFlags) *Buttonbind {
	for i := range b {
		if b[i].Mods == mods && b[i].Button == button && b[i].Flags == flags {
			return &b[i]
		}
	}
	return nil
}

// String implements Stringer.
func (b *Keybind) String() string {
	return b.str
}

// String implements Stringer.
func (b *Buttonbind) String() string {
	return b.str
}

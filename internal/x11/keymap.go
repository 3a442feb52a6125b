package x11

import (
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

// Keymap holds the server's keycode to keysym mapping.
type Keymap struct {
	min  xproto.Keycode
	per  int
	syms []xproto.Keysym
}

// GetKeymap fetches the keyboard mapping for the full keycode range.
func (c *Client) GetKeymap() (Keymap, error) {
	setup := xproto.Setup(c.conn)
	min, max := setup.MinKeycode, setup.MaxKeycode
	reply, err := xproto.GetKeyboardMapping(c.conn, min, byte(max-min+1)).Reply()
	if err != nil {
		return Keymap{}, errors.Wrap(err, "get keyboard mapping")
	}
	if reply.KeysymsPerKeycode == 0 {
		return Keymap{}, errors.New("empty keyboard mapping")
	}
	return Keymap{
		min:  min,
		per:  int(reply.KeysymsPerKeycode),
		syms: reply.Keysyms,
	}, nil
}

// Keysym returns the primary (unshifted) keysym for the given keycode, or 0
// if the keycode is out of range.
func (m *Keymap) Keysym(code xproto.Keycode) Keysym {
	idx := (int(code) - int(m.min)) * m.per
	if code < m.min || idx >= len(m.syms) {
		return 0
	}
	return m.syms[idx]
}

// Keycodes returns every keycode whose primary keysym is the given symbol.
// A symbol can appear on more than one physical key.
func (m *Keymap) Keycodes(sym Keysym) []xproto.Keycode {
	var codes []xproto.Keycode
	for i := 0; i*m.per < len(m.syms); i += 1 {
		if m.syms[i*m.per] == sym {
			codes = append(codes, m.min+xproto.Keycode(i))
		}
	}
	return codes
}

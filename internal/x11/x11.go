// Package x11 provides a client for talking to the X server over the wire
// protocol: querying and configuring windows, grabbing keys and the pointer,
// and receiving the raw event stream.
package x11

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

// Event masks
const (
	maskRoot uint32 = xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskPropertyChange

	maskPointerGrab uint16 = xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion

	maskButtonGrab uint16 = xproto.EventMaskButtonPress

	maskConfigure uint16 = xproto.ConfigWindowX |
		xproto.ConfigWindowY |
		xproto.ConfigWindowWidth |
		xproto.ConfigWindowHeight |
		xproto.ConfigWindowBorderWidth
)

// Pointer grab error names
var pointerGrabErrors = []string{
	"Success",
	"Already grabbed",
	"Invalid time",
	"Not viewable",
	"Frozen",
}

// NewClient attempts to create a new X client.
func NewClient() (*Client, error) {
	xc, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	return &Client{
		conn: xc,
		atoms: atomMap{
			atoms: make(map[string]xproto.Atom),
			mu:    &sync.RWMutex{},
		},
		root: xproto.Setup(xc).DefaultScreen(xc).Root,
	}, nil
}

// Get returns the atom with the given name if it has already been queried,
// otherwise it asks the X server for the atom and caches it.
func (a *atomMap) Get(c *Client, name string) (xproto.Atom, error) {
	a.mu.RLock()
	if atom, ok := a.atoms[name]; ok {
		a.mu.RUnlock()
		return atom, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	reply, err := xproto.InternAtom(c.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	a.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// BecomeWM registers panewm as the window manager by selecting substructure
// redirection on the root window. It fails if another window manager is
// already running.
func (c *Client) BecomeWM() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.conn,
		c.root,
		xproto.CwEventMask,
		[]uint32{maskRoot},
	).Check()
	if err != nil {
		return errors.Wrap(err, "another window manager is running")
	}
	return nil
}

// RootWindow returns the ID of the root window.
func (c *Client) RootWindow() xproto.Window {
	return c.root
}

// GetGeometry queries the server for the current geometry of the given
// window.
func (c *Client) GetGeometry(win xproto.Window) (Geometry, error) {
	reply, err := xproto.GetGeometry(c.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, err
	}
	return Geometry{
		X:           reply.X,
		Y:           reply.Y,
		Width:       reply.Width,
		Height:      reply.Height,
		BorderWidth: reply.BorderWidth,
	}, nil
}

// MoveWindow repositions the given window without touching its size.
func (c *Client) MoveWindow(win xproto.Window, x, y int16) error {
	return xproto.ConfigureWindowChecked(
		c.conn,
		win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))},
	).Check()
}

// ConfigureWindow moves and resizes the given window, including its border
// width.
func (c *Client) ConfigureWindow(win xproto.Window, x, y int16, w, h, bw uint16) error {
	return xproto.ConfigureWindowChecked(
		c.conn,
		win,
		maskConfigure,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(w), uint32(h), uint32(bw)},
	).Check()
}

// RaiseWindow puts the given window at the top of the stacking order.
func (c *Client) RaiseWindow(win xproto.Window) error {
	return xproto.ConfigureWindowChecked(
		c.conn,
		win,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
}

// MapWindow makes the given window appear on screen.
func (c *Client) MapWindow(win xproto.Window) error {
	return xproto.MapWindowChecked(c.conn, win).Check()
}

// UnmapWindow removes the given window from the screen.
func (c *Client) UnmapWindow(win xproto.Window) error {
	return xproto.UnmapWindowChecked(c.conn, win).Check()
}

// SetInputFocus assigns keyboard focus to the given window.
func (c *Client) SetInputFocus(win xproto.Window) error {
	return xproto.SetInputFocusChecked(
		c.conn,
		xproto.InputFocusPointerRoot,
		win,
		xproto.TimeCurrentTime,
	).Check()
}

// QueryPointer returns the current root-relative pointer position and the
// child window underneath it.
func (c *Client) QueryPointer() (int16, int16, xproto.Window, error) {
	reply, err := xproto.QueryPointer(c.conn, c.root).Reply()
	if err != nil {
		return 0, 0, 0, err
	}
	return reply.RootX, reply.RootY, reply.Child, nil
}

// GrabPointer acquires an exclusive grab on the pointer, diverting button
// release and motion events to panewm until UngrabPointer is called.
func (c *Client) GrabPointer() error {
	reply, err := xproto.GrabPointer(
		c.conn,
		false,
		c.root,
		maskPointerGrab,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		c.root,
		xproto.CursorNone,
		xproto.TimeCurrentTime,
	).Reply()
	if err != nil {
		return err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return errors.New(pointerGrabErrors[reply.Status])
	}
	return nil
}

// UngrabPointer returns the pointer to the X server. Ungrabbing when no grab
// is held is harmless.
func (c *Client) UngrabPointer() error {
	return xproto.UngrabPointerChecked(c.conn, xproto.TimeCurrentTime).Check()
}

// GrabKey grabs a key on the root window for every combination of the ignored
// modifiers, so that stuck lock modifiers do not break keybinds.
func (c *Client) GrabKey(mod Keymod, code xproto.Keycode, ignore Keymod) error {
	for _, mods := range modifierCombos(mod, ignore) {
		err := xproto.GrabKeyChecked(
			c.conn,
			true,
			c.root,
			mods,
			code,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
		).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

// UngrabKey releases a grabbed key and returns it back to the X server.
func (c *Client) UngrabKey(mod Keymod, code xproto.Keycode, ignore Keymod) error {
	for _, mods := range modifierCombos(mod, ignore) {
		err := xproto.UngrabKeyChecked(c.conn, code, c.root, mods).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

// GrabButton grabs a pointer button on the root window for every combination
// of the ignored modifiers.
func (c *Client) GrabButton(mod Keymod, button xproto.Button, ignore Keymod) error {
	for _, mods := range modifierCombos(mod, ignore) {
		err := xproto.GrabButtonChecked(
			c.conn,
			false,
			c.root,
			maskButtonGrab,
			xproto.GrabModeAsync,
			xproto.GrabModeAsync,
			c.root,
			xproto.CursorNone,
			byte(button),
			mods,
		).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

// UngrabButton releases a grabbed pointer button.
func (c *Client) UngrabButton(mod Keymod, button xproto.Button, ignore Keymod) error {
	for _, mods := range modifierCombos(mod, ignore) {
		err := xproto.UngrabButtonChecked(c.conn, byte(button), c.root, mods).Check()
		if err != nil {
			return err
		}
	}
	return nil
}

// CloseWindow asks the given window to close itself via WM_DELETE_WINDOW if
// the window participates in the protocol, and kills the client otherwise.
func (c *Client) CloseWindow(win xproto.Window) error {
	protocols, err := c.atoms.Get(c, "WM_PROTOCOLS")
	if err != nil {
		return errors.Wrap(err, "get WM_PROTOCOLS atom")
	}
	delWindow, err := c.atoms.Get(c, "WM_DELETE_WINDOW")
	if err != nil {
		return errors.Wrap(err, "get WM_DELETE_WINDOW atom")
	}
	raw, err := c.getProperty(win, protocols, xproto.AtomAtom)
	supported := false
	if err == nil {
		for i := 0; i+4 <= len(raw); i += 4 {
			if xproto.Atom(binary.LittleEndian.Uint32(raw[i:i+4])) == delWindow {
				supported = true
				break
			}
		}
	}
	if !supported {
		return xproto.KillClientChecked(c.conn, uint32(win)).Check()
	}
	data := make([]uint32, 5)
	data[0] = uint32(delWindow)
	data[1] = uint32(xproto.TimeCurrentTime)
	evt := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   protocols,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}
	return xproto.SendEventChecked(
		c.conn,
		false,
		win,
		xproto.EventMaskNoEvent,
		string(evt.Bytes()),
	).Check()
}

// GetWindowTitle returns the WM_NAME property of the given window.
func (c *Client) GetWindowTitle(win xproto.Window) (string, error) {
	raw, err := c.getProperty(win, xproto.AtomWmName, xproto.AtomString)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// GetSizeHints returns the WM_NORMAL_HINTS property of the given window.
func (c *Client) GetSizeHints(win xproto.Window) (SizeHints, error) {
	raw, err := c.getProperty(win, xproto.AtomWmNormalHints, xproto.AtomWmSizeHints)
	if err != nil {
		return SizeHints{}, err
	}
	// flags, x, y, width, height, min w/h, max w/h and further fields panewm
	// does not use, each 32 bits.
	if len(raw) < 9*4 {
		return SizeHints{}, fmt.Errorf("invalid WM_NORMAL_HINTS length %d", len(raw))
	}
	return SizeHints{
		Flags:     binary.LittleEndian.Uint32(raw[0:]),
		MinWidth:  binary.LittleEndian.Uint32(raw[5*4:]),
		MinHeight: binary.LittleEndian.Uint32(raw[6*4:]),
		MaxWidth:  binary.LittleEndian.Uint32(raw[7*4:]),
		MaxHeight: binary.LittleEndian.Uint32(raw[8*4:]),
	}, nil
}

// GetWmHints returns the WM_HINTS property of the given window.
func (c *Client) GetWmHints(win xproto.Window) (WmHints, error) {
	raw, err := c.getProperty(win, xproto.AtomWmHints, xproto.AtomWmHints)
	if err != nil {
		return WmHints{}, err
	}
	if len(raw) < 3*4 {
		return WmHints{}, fmt.Errorf("invalid WM_HINTS length %d", len(raw))
	}
	return WmHints{
		Flags:        binary.LittleEndian.Uint32(raw[0:]),
		Input:        binary.LittleEndian.Uint32(raw[4:]) != 0,
		InitialState: binary.LittleEndian.Uint32(raw[8:]),
	}, nil
}

// getProperty gets a property from a window and returns it in the form of a
// byte slice.
func (c *Client) getProperty(win xproto.Window, prop, typ xproto.Atom) ([]byte, error) {
	reply, err := xproto.GetProperty(
		c.conn,
		false,
		win,
		prop,
		typ,
		0,
		1024,
	).Reply()
	if err != nil {
		return nil, err
	}
	if reply.Format == 0 {
		return nil, fmt.Errorf("window has no such property")
	}
	return reply.Value, nil
}

// modifierCombos returns mods combined with every subset of the ignored
// modifier bits.
func modifierCombos(mod, ignore Keymod) []uint16 {
	bits := []Keymod{}
	for bit := Keymod(1); bit != 0 && bit <= ignore; bit <<= 1 {
		if ignore&bit != 0 {
			bits = append(bits, bit)
		}
	}
	combos := make([]uint16, 0, 1<<len(bits))
	for set := 0; set < 1<<len(bits); set += 1 {
		combined := mod
		for i, bit := range bits {
			if set&(1<<i) != 0 {
				combined |= bit
			}
		}
		combos = append(combos, uint16(combined))
	}
	return combos
}

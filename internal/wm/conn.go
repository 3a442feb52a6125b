package wm

import (
	"github.com/jezek/xgb/xproto"

	"panewm/internal/x11"
)

// xconn is the surface of the X client the window manager core uses. It is
// satisfied by *x11.Client and replaced with a fake in tests.
type xconn interface {
	GetGeometry(win xproto.Window) (x11.Geometry, error)
	MoveWindow(win xproto.Window, x, y int16) error
	ConfigureWindow(win xproto.Window, x, y int16, w, h, bw uint16) error
	RaiseWindow(win xproto.Window) error
	MapWindow(win xproto.Window) error
	UnmapWindow(win xproto.Window) error
	SetInputFocus(win xproto.Window) error
	GrabPointer() error
	UngrabPointer() error
	CloseWindow(win xproto.Window) error
	GetWindowTitle(win xproto.Window) (string, error)
	GetSizeHints(win xproto.Window) (x11.SizeHints, error)
	GetWmHints(win xproto.Window) (x11.WmHints, error)
}

package x11

import (
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// atomMap caches the mapping of strings to X11 atoms to avoid re-requesting
// atoms from the X server repeatedly.
type atomMap struct {
	atoms map[string]xproto.Atom
	mu    *sync.RWMutex
}

// Client maintains a connection with the X server and wraps the wire-protocol
// requests panewm needs (geometry queries, window configuration, pointer and
// key grabs, property reads).
type Client struct {
	conn  *xgb.Conn     // Connection to the X server
	atoms atomMap       // Cache of X atoms
	root  xproto.Window // The root window ID (needed for various common tasks, so store it)

	// The first event code assigned to the RandR extension. Established once
	// by InitRandr; events at or above it are screen change notifications.
	randrBase uint8

	polling bool
}

// Keysym is an X key symbol (layout-independent key identity).
type Keysym = xproto.Keysym

// Keymod is a bit-set of X modifier keys.
type Keymod uint16

// Geometry is the server-side position and size of a window.
type Geometry struct {
	X           int16
	Y           int16
	Width       uint16
	Height      uint16
	BorderWidth uint16
}

// SizeHints contains the fields of a window's WM_NORMAL_HINTS property that
// panewm cares about.
type SizeHints struct {
	Flags     uint32
	MinWidth  uint32
	MinHeight uint32
	MaxWidth  uint32
	MaxHeight uint32
}

// WM_NORMAL_HINTS flag bits.
const (
	HintMinSize uint32 = 1 << 4
	HintMaxSize uint32 = 1 << 5
)

// WmHints contains the fields of a window's WM_HINTS property that panewm
// cares about.
type WmHints struct {
	Flags        uint32
	Input        bool
	InitialState uint32
}

// WM_HINTS flag bits and initial states.
const (
	HintInput uint32 = 1 << 0
	HintState uint32 = 1 << 1

	StateNormal uint32 = 1
	StateIconic uint32 = 3
)

// Output is a single enabled RandR output (monitor).
type Output struct {
	Name   string
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

// Event is a raw protocol event tagged with its numeric type code. The code
// has the from-server bit cleared; classifying it (core event vs. extension
// event) is left to the consumer.
type Event struct {
	Code uint8
	Data xgb.Event
}

const (
	CHANNEL_SIZE       = 256
	ERROR_CHANNEL_SIZE = 8
)

const (
	ModShift Keymod = 1 << 0
	ModLock  Keymod = 1 << 1
	ModCtrl  Keymod = 1 << 2
	Mod1     Keymod = 1 << 3
	Mod2     Keymod = 1 << 4
	Mod3     Keymod = 1 << 5
	Mod4     Keymod = 1 << 6
	Mod5     Keymod = 1 << 7
	ModNone  Keymod = 0
)

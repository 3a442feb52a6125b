package x11

import (
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
	"github.com/pkg/errors"
)

// InitRandr negotiates the RandR extension, subscribes to screen change
// notifications on the root window and returns the extension's event base:
// the first event type code the server assigned to RandR.
func (c *Client) InitRandr() (uint8, error) {
	if err := randr.Init(c.conn); err != nil {
		return 0, errors.Wrap(err, "init randr")
	}
	reply, err := xproto.QueryExtension(c.conn, uint16(len("RANDR")), "RANDR").Reply()
	if err != nil {
		return 0, errors.Wrap(err, "query randr")
	}
	if !reply.Present {
		return 0, errors.New("randr not present")
	}
	err = randr.SelectInputChecked(c.conn, c.root, randr.NotifyMaskScreenChange).Check()
	if err != nil {
		return 0, errors.Wrap(err, "select randr input")
	}
	c.randrBase = reply.FirstEvent
	return reply.FirstEvent, nil
}

// QueryOutputs enumerates the currently connected and enabled RandR outputs.
func (c *Client) QueryOutputs() ([]Output, error) {
	res, err := randr.GetScreenResourcesCurrent(c.conn, c.root).Reply()
	if err != nil {
		return nil, errors.Wrap(err, "get screen resources")
	}
	outputs := make([]Output, 0, len(res.Outputs))
	for _, out := range res.Outputs {
		info, err := randr.GetOutputInfo(c.conn, out, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, errors.Wrap(err, "get output info")
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(c.conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, errors.Wrap(err, "get crtc info")
		}
		outputs = append(outputs, Output{
			Name:   string(info.Name),
			X:      crtc.X,
			Y:      crtc.Y,
			Width:  crtc.Width,
			Height: crtc.Height,
		})
	}
	return outputs, nil
}

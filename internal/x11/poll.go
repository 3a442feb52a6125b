package x11

import (
	"context"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/pkg/errors"
)

// Poll starts a separate goroutine which listens for and forwards raw
// protocol events, each tagged with its numeric type code.
func (c *Client) Poll(ctx context.Context) (<-chan Event, <-chan error, error) {
	if c.polling {
		return nil, nil, errors.New("already polling")
	}
	c.polling = true
	ch := make(chan Event, CHANNEL_SIZE)
	errCh := make(chan error, ERROR_CHANNEL_SIZE)
	go c.poll(ctx, ch, errCh)
	return ch, errCh, nil
}

// Close shuts down the X connection. The poll loop terminates once the
// server side of the connection is gone.
func (c *Client) Close() {
	c.conn.Close()
}

func (c *Client) poll(ctx context.Context, ch chan<- Event, errCh chan<- error) {
	defer close(ch)
	defer close(errCh)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		evt, err := c.conn.WaitForEvent()
		if evt == nil && err == nil {
			errCh <- ErrConnectionDied
			return
		}
		if err != nil {
			errCh <- err
			continue
		}
		ch <- Event{Code: c.eventCode(evt), Data: evt}
	}
}

// eventCode recovers the numeric type code of an event with the from-server
// bit cleared. Core protocol events serialize their absolute code; extension
// events are numbered relative to the extension's event base.
func (c *Client) eventCode(evt xgb.Event) uint8 {
	switch evt.(type) {
	case randr.ScreenChangeNotifyEvent:
		return c.randrBase + randr.ScreenChangeNotify
	case randr.NotifyEvent:
		return c.randrBase + randr.Notify
	}
	return evt.Bytes()[0] &^ 0x80
}

// Package x11 owns the connection to the X server and the RandR
// notification subscription.
package x11

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/m10k/xrandrwait/internal/event"
)

var (
	// ErrRandrUnsupported is returned when the server lacks the RandR
	// extension. The connection is released before it is returned.
	ErrRandrUnsupported = errors.New("x11: server does not support the RANDR extension")

	// ErrAlreadyClosed is returned by Close on a connection that has no
	// live server link.
	ErrAlreadyClosed = errors.New("x11: connection already closed")

	// ErrInvalidConnection is returned by Close on a nil connection.
	ErrInvalidConnection = errors.New("x11: invalid connection")
)

// Connection manages the X server link, the root window the notification
// mask is registered on, and the locally buffered notification queue.
type Connection struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	queue  []xgb.Event
	logger *slog.Logger
}

// NewConnection connects to the X server (the default display when display
// is empty) and initializes the RandR extension. When RandR is absent the
// connection is closed before the error is returned.
func NewConnection(display string, logger *slog.Logger) (*Connection, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("x11: cannot open display: %w", err)
	}

	if err := randr.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, ErrRandrUnsupported
	}

	return &Connection{
		xu:     xu,
		root:   xu.RootWin(),
		logger: logger,
	}, nil
}

// SelectNotify registers interest in the given RandR notification mask on
// the root window. An empty mask selects every notification kind.
func (c *Connection) SelectNotify(mask uint16) error {
	if mask == 0 {
		mask = event.DefaultNotifyMask
	}
	if err := randr.SelectInputChecked(c.xu.Conn(), c.root, mask).Check(); err != nil {
		return fmt.Errorf("x11: cannot select RandR input: %w", err)
	}
	return nil
}

// Pending moves every event the server has already delivered into the local
// queue without blocking and reports how many are buffered. Protocol errors
// read off the wire are logged and dropped.
func (c *Connection) Pending() int {
	for {
		ev, xerr := c.xu.Conn().PollForEvent()
		if xerr != nil {
			c.logger.Debug("dropping X protocol error", "error", xerr.Error())
			continue
		}
		if ev == nil {
			return len(c.queue)
		}
		c.queue = append(c.queue, ev)
	}
}

// Next removes and returns the oldest buffered event. It only blocks when
// the queue is empty; the dispatch loop never calls it in that state.
func (c *Connection) Next() (xgb.Event, error) {
	if len(c.queue) > 0 {
		ev := c.queue[0]
		c.queue = c.queue[1:]
		return ev, nil
	}

	ev, err := c.xu.Conn().WaitForEvent()
	if ev == nil && err == nil {
		return nil, ErrAlreadyClosed
	}
	if err != nil {
		return nil, fmt.Errorf("x11: %s", err.Error())
	}
	return ev, nil
}

// Close releases the server connection and resets the receiver to its empty
// state. Closing an already closed connection is an error.
func (c *Connection) Close() error {
	if c == nil {
		return ErrInvalidConnection
	}
	if c.xu == nil {
		return ErrAlreadyClosed
	}

	c.xu.Conn().Close()
	*c = Connection{}
	return nil
}

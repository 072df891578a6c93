// Package waiter runs the notification wait-and-dispatch loop: it drains
// buffered RandR events from a source, prints the decoded ones, and decides
// when to stop.
package waiter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"

	"github.com/m10k/xrandrwait/internal/event"
)

// DefaultPollInterval bounds the loop latency while waiting for the next
// batch of notifications.
const DefaultPollInterval = 100 * time.Millisecond

// Source supplies buffered X events. *x11.Connection satisfies it.
type Source interface {
	// Pending reports how many events are buffered without blocking.
	Pending() int
	// Next removes and returns one buffered event. The loop only calls
	// it while Pending reports a non-empty buffer.
	Next() (xgb.Event, error)
}

// Config holds the run state the loop consults every pass.
type Config struct {
	// Monitor keeps the loop running after a notification was handled.
	Monitor bool
	// Quiet suppresses all stdout output.
	Quiet bool
	// Timeout stops the loop after the given duration. Zero means no
	// deadline.
	Timeout time.Duration
	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration

	Format event.Format
	Output io.Writer
	Logger *slog.Logger
}

// Waiter owns the running flag shared between the loop, the signal
// goroutine and the timeout timer. Those asynchronous writers do exactly one
// thing: clear the flag. Everything else happens on the loop goroutine.
type Waiter struct {
	cfg     Config
	running atomic.Bool
	cause   atomic.Value // string, recorded for the post-loop debug log
}

// New creates a waiter, applying defaults for unset Config fields.
func New(cfg Config) *Waiter {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Format == "" {
		cfg.Format = event.FormatText
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Waiter{cfg: cfg}
}

// Stop asks the loop to exit after its current pass.
func (w *Waiter) Stop() {
	w.running.Store(false)
}

// Run blocks until a notification is handled (one-shot mode), a termination
// signal arrives, or the timeout fires. It reports whether the final pass
// handled a notification.
func (w *Waiter) Run(src Source) bool {
	w.running.Store(true)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM,
		syscall.SIGUSR1, syscall.SIGALRM)
	defer func() {
		signal.Stop(sigCh)
		close(sigCh)
	}()
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		w.cause.Store("signal " + sig.String())
		w.running.Store(false)
	}()

	if w.cfg.Timeout > 0 {
		timer := time.AfterFunc(w.cfg.Timeout, func() {
			w.cause.Store("timeout")
			w.running.Store(false)
		})
		defer timer.Stop()
	}

	handled := false
	for w.running.Load() {
		handled = w.drain(src)
		if handled && !w.cfg.Monitor {
			w.running.Store(false)
		}
		time.Sleep(w.cfg.PollInterval)
	}

	if cause, ok := w.cause.Load().(string); ok {
		w.cfg.Logger.Debug("loop stopped", "cause", cause)
	}
	return handled
}

// drain consumes every currently buffered event and reports whether at
// least one of them was a notification this tool handles.
func (w *Waiter) drain(src Source) bool {
	handled := false

	for src.Pending() > 0 {
		ev, err := src.Next()
		if err != nil {
			continue
		}

		switch e := ev.(type) {
		case randr.ScreenChangeNotifyEvent:
			w.cfg.Logger.Debug("RRScreenChangeNotify")
			handled = true

		case randr.NotifyEvent:
			switch e.SubCode {
			case randr.NotifyOutputChange:
				w.cfg.Logger.Debug("RRNotify_OutputChange")
				w.emit(event.DecodeOutputChange(e.U.Oc))
				handled = true

			case randr.NotifyCrtcChange:
				w.cfg.Logger.Debug("RRNotify_CrtcChange")
				w.emit(event.DecodeCrtcChange(e.U.Cc))
				handled = true

			default:
				w.cfg.Logger.Debug("ignoring RandR notify subtype", "subcode", e.SubCode)
			}

		default:
			w.cfg.Logger.Debug("ignoring event", "type", fmt.Sprintf("%T", ev))
		}
	}

	return handled
}

func (w *Waiter) emit(ev fmt.Stringer) {
	if w.cfg.Quiet {
		return
	}
	if err := event.Encode(w.cfg.Output, w.cfg.Format, ev); err != nil {
		w.cfg.Logger.Warn("cannot write event", "error", err)
	}
}

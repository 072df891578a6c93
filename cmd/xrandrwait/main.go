// xrandrwait blocks until the X server reports a display-configuration
// change (output reconnection, CRTC geometry change, screen change) and
// prints one decoded line per notification.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/m10k/xrandrwait/internal/event"
	"github.com/m10k/xrandrwait/internal/waiter"
	"github.com/m10k/xrandrwait/internal/x11"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 when a notification was handled, 1
// when the loop ended with nothing handled or the session could not be
// opened, 2 on command-line errors (including help).
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return 2
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))

	conn, err := x11.NewConnection(opts.display, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer conn.Close()

	if opts.list {
		return runList(conn, opts.format, stdout, stderr)
	}

	if err := conn.SelectNotify(event.ResolveMask(opts.events)); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if !opts.quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintln(stderr, "xrandrwait: waiting for RandR events")
	}

	w := waiter.New(waiter.Config{
		Monitor: opts.monitor,
		Quiet:   opts.quiet,
		Timeout: opts.timeout,
		Format:  opts.format,
		Output:  stdout,
		Logger:  logger,
	})
	if w.Run(conn) {
		return 0
	}
	return 1
}

// runList prints a snapshot of the current outputs instead of waiting.
func runList(conn *x11.Connection, format event.Format, stdout, stderr io.Writer) int {
	infos, err := conn.Outputs()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	for _, info := range infos {
		if err := event.Encode(stdout, format, info); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	return 0
}

package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/m10k/xrandrwait/internal/event"
)

// options carries the already-validated inputs the wait engine needs.
type options struct {
	events  []string
	monitor bool
	quiet   bool
	list    bool
	verbose bool
	timeout time.Duration
	display string
	format  event.Format
}

// eventList collects repeated -e/--event occurrences.
type eventList []string

func (l *eventList) String() string {
	return fmt.Sprint([]string(*l))
}

func (l *eventList) Set(s string) error {
	*l = append(*l, s)
	return nil
}

// timeoutValue parses the -t/--timeout argument as whole seconds.
type timeoutValue time.Duration

func (t *timeoutValue) String() string {
	return strconv.FormatInt(int64(time.Duration(*t)/time.Second), 10)
}

func (t *timeoutValue) Set(s string) error {
	secs, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid timeout: %s", s)
	}
	*t = timeoutValue(time.Duration(secs) * time.Second)
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xrandrwait [OPTIONS]")
	fmt.Fprintln(w, "Wait for a particular XRandR event")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  -d  --display  Connect to the given X display instead of the default one")
	fmt.Fprintln(w, "  -e  --event    Listen for specific events. If omitted, all events are")
	fmt.Fprintln(w, "                 listened for. This option may be specified more than once.")
	fmt.Fprintln(w, "                 Allowed values: crtc_change, output_change, screen_change")
	fmt.Fprintln(w, "  -f  --format   Output format: text, json or yaml")
	fmt.Fprintln(w, "  -h  --help     Print this text")
	fmt.Fprintln(w, "  -l  --list     Print the current outputs and exit")
	fmt.Fprintln(w, "  -m  --monitor  Do not exit after an event occurs")
	fmt.Fprintln(w, "  -q  --quiet    Do not print any output")
	fmt.Fprintln(w, "  -t  --timeout  Exit if no event has occurred within the specified number")
	fmt.Fprintln(w, "                 of seconds")
	fmt.Fprintln(w, "  -v  --verbose  Log debug information to standard error")
}

// parseArgs resolves the command line into options. Both the short and the
// long spelling of every flag bind to the same destination. Arguments that
// are not flags are ignored.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("xrandrwait", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	var events eventList
	fs.Var(&events, "e", "listen for a specific event")
	fs.Var(&events, "event", "listen for a specific event")

	var timeout timeoutValue
	fs.Var(&timeout, "t", "exit after the given number of seconds")
	fs.Var(&timeout, "timeout", "exit after the given number of seconds")

	fs.BoolVar(&opts.monitor, "m", false, "do not exit after an event occurs")
	fs.BoolVar(&opts.monitor, "monitor", false, "do not exit after an event occurs")
	fs.BoolVar(&opts.quiet, "q", false, "do not print any output")
	fs.BoolVar(&opts.quiet, "quiet", false, "do not print any output")
	fs.BoolVar(&opts.list, "l", false, "print the current outputs and exit")
	fs.BoolVar(&opts.list, "list", false, "print the current outputs and exit")
	fs.BoolVar(&opts.verbose, "v", false, "log debug information to standard error")
	fs.BoolVar(&opts.verbose, "verbose", false, "log debug information to standard error")
	fs.StringVar(&opts.display, "d", "", "X display to connect to")
	fs.StringVar(&opts.display, "display", "", "X display to connect to")

	format := fs.String("f", string(event.FormatText), "output format")
	fs.StringVar(format, "format", string(event.FormatText), "output format")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	parsed, err := event.ParseFormat(*format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return nil, err
	}

	opts.events = events
	opts.timeout = time.Duration(timeout)
	opts.format = parsed
	return opts, nil
}

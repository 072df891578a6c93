package waiter

import (
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"

	"github.com/m10k/xrandrwait/internal/event"
)

// scriptedSource hands the loop one batch of events per drain pass, the way
// a real connection surfaces whatever the server delivered since the last
// poll. After the final event is consumed it can stop the waiter, playing
// the role of a termination signal.
type scriptedSource struct {
	passes    [][]xgb.Event
	queue     []xgb.Event
	delivered bool
	stop      func()
}

func (s *scriptedSource) Pending() int {
	if len(s.queue) == 0 {
		if s.delivered {
			// Current batch fully consumed; end this drain pass.
			s.delivered = false
			return 0
		}
		if len(s.passes) > 0 {
			s.queue, s.passes = s.passes[0], s.passes[1:]
			s.delivered = true
		}
	}
	return len(s.queue)
}

func (s *scriptedSource) Next() (xgb.Event, error) {
	ev := s.queue[0]
	s.queue = s.queue[1:]
	if len(s.queue) == 0 && len(s.passes) == 0 && s.stop != nil {
		s.stop()
	}
	return ev, nil
}

func crtcChangeEvent(width, height uint16) randr.NotifyEvent {
	return randr.NotifyEvent{
		SubCode: randr.NotifyCrtcChange,
		U: randr.NotifyDataUnionCcNew(randr.CrtcChange{
			Crtc:     63,
			Width:    width,
			Height:   height,
			Mode:     81,
			Rotation: randr.RotationRotate0,
		}),
	}
}

func outputChangeEvent() randr.NotifyEvent {
	return randr.NotifyEvent{
		SubCode: randr.NotifyOutputChange,
		U: randr.NotifyDataUnionOcNew(randr.OutputChange{
			Output:     66,
			Crtc:       63,
			Mode:       81,
			Connection: randr.ConnectionConnected,
		}),
	}
}

func TestRunOneShotStopsAfterFirstHandled(t *testing.T) {
	var out strings.Builder
	src := &scriptedSource{passes: [][]xgb.Event{{crtcChangeEvent(1920, 1080)}}}

	w := New(Config{PollInterval: time.Millisecond, Output: &out})
	if !w.Run(src) {
		t.Fatalf("expected the handled notification to be reported")
	}

	want := "XRRCrtcChangeNotifyEvent crtc=0x3f res=1920x1080 pos=0x0 mode=0x51 rotation=0 reflection=0\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestRunMonitorKeepsDraining(t *testing.T) {
	var out strings.Builder
	src := &scriptedSource{
		passes: [][]xgb.Event{
			{crtcChangeEvent(1920, 1080)},
			{outputChangeEvent()},
		},
	}

	w := New(Config{Monitor: true, PollInterval: time.Millisecond, Output: &out})
	src.stop = w.Stop

	if !w.Run(src) {
		t.Fatalf("expected the final pass to report a handled notification")
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 printed events, got %d: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[0], "XRRCrtcChangeNotifyEvent ") {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "XRROutputChangeNotifyEvent ") {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestRunQuietSuppressesOutput(t *testing.T) {
	var out strings.Builder
	src := &scriptedSource{passes: [][]xgb.Event{{outputChangeEvent()}}}

	w := New(Config{Quiet: true, PollInterval: time.Millisecond, Output: &out})
	if !w.Run(src) {
		t.Fatalf("quiet mode must still report the notification as handled")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunScreenChangeHandledWithoutOutput(t *testing.T) {
	var out strings.Builder
	src := &scriptedSource{passes: [][]xgb.Event{{randr.ScreenChangeNotifyEvent{}}}}

	w := New(Config{PollInterval: time.Millisecond, Output: &out})
	if !w.Run(src) {
		t.Fatalf("screen change must count as handled")
	}
	if out.Len() != 0 {
		t.Fatalf("screen change has no payload to print, got %q", out.String())
	}
}

func TestRunIgnoresUnknownSubtype(t *testing.T) {
	var out strings.Builder
	src := &scriptedSource{
		passes: [][]xgb.Event{{randr.NotifyEvent{SubCode: 7}}},
	}

	w := New(Config{PollInterval: time.Millisecond, Output: &out})
	src.stop = w.Stop

	if w.Run(src) {
		t.Fatalf("unknown subtype must not count as handled")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunTimeoutStopsEmptyLoop(t *testing.T) {
	var out strings.Builder
	src := &scriptedSource{}

	w := New(Config{
		Timeout:      20 * time.Millisecond,
		PollInterval: time.Millisecond,
		Output:       &out,
	})

	done := make(chan bool, 1)
	go func() { done <- w.Run(src) }()

	select {
	case handled := <-done:
		if handled {
			t.Fatalf("nothing was delivered, nothing should be handled")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout did not stop the loop")
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestRunJSONFormat(t *testing.T) {
	var out strings.Builder
	src := &scriptedSource{passes: [][]xgb.Event{{outputChangeEvent()}}}

	w := New(Config{
		PollInterval: time.Millisecond,
		Format:       event.FormatJSON,
		Output:       &out,
	})
	if !w.Run(src) {
		t.Fatalf("expected the notification to be handled")
	}

	want := `{"output":66,"crtc":63,"mode":81,"connection":"Y"}` + "\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

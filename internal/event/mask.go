package event

import (
	"github.com/BurntSushi/xgb/randr"
)

// DefaultNotifyMask covers every notification kind the tool understands.
// It is applied at registration time when the user selected no events.
const DefaultNotifyMask = randr.NotifyMaskCrtcChange |
	randr.NotifyMaskOutputChange |
	randr.NotifyMaskScreenChange

// maskNames maps the CLI event vocabulary to RandR notify mask bits.
var maskNames = map[string]uint16{
	"crtc_change":   randr.NotifyMaskCrtcChange,
	"output_change": randr.NotifyMaskOutputChange,
	"screen_change": randr.NotifyMaskScreenChange,
}

// ResolveMask ORs the mask bits for every recognized event name.
// Unrecognized names are ignored and repeats are idempotent. The result is
// zero when nothing was recognized; the caller decides what an empty
// selection means (the session substitutes DefaultNotifyMask).
func ResolveMask(names []string) uint16 {
	var mask uint16
	for _, name := range names {
		mask |= maskNames[name]
	}
	return mask
}

// Package event decodes raw RandR notification payloads into the fixed
// vocabulary the tool prints. All decoders are total: unknown raw values map
// to a defined fallback string instead of an error, so a notification can
// never abort the dispatch loop.
package event

import (
	"github.com/BurntSushi/xgb/randr"
)

// fallback is returned for any raw value outside a decoder's known domain.
const fallback = "E"

// RotationName decodes the rotation bits of a RandR Rotation word. Only the
// low nibble carries rotation; the codes are one-hot bit flags, not an
// enumeration.
func RotationName(raw uint16) string {
	switch raw & 0x0f {
	case randr.RotationRotate0:
		return "0"
	case randr.RotationRotate90:
		return "90"
	case randr.RotationRotate180:
		return "180"
	case randr.RotationRotate270:
		return "270"
	default:
		return fallback
	}
}

// ReflectionName decodes the reflection bits of a RandR Rotation word.
// Reflection lives in the nibble above rotation.
func ReflectionName(raw uint16) string {
	switch raw & 0xf0 {
	case 0:
		return "0"
	case randr.RotationReflectX:
		return "X"
	case randr.RotationReflectY:
		return "Y"
	case randr.RotationReflectX | randr.RotationReflectY:
		return "XY"
	default:
		return fallback
	}
}

// ConnectionName decodes an output connection state.
func ConnectionName(raw byte) string {
	switch raw {
	case randr.ConnectionConnected:
		return "Y"
	case randr.ConnectionDisconnected:
		return "N"
	case randr.ConnectionUnknown:
		return "?"
	default:
		return fallback
	}
}

// DecodeOutputChange flattens a raw output-change payload.
func DecodeOutputChange(oc randr.OutputChange) OutputChange {
	return OutputChange{
		Output:     uint32(oc.Output),
		Crtc:       uint32(oc.Crtc),
		Mode:       uint32(oc.Mode),
		Connection: ConnectionName(oc.Connection),
	}
}

// DecodeCrtcChange flattens a raw CRTC-change payload. Rotation and
// reflection both come from the Rotation word; the protocol packs them into
// disjoint nibbles.
func DecodeCrtcChange(cc randr.CrtcChange) CrtcChange {
	return CrtcChange{
		Crtc:       uint32(cc.Crtc),
		Width:      cc.Width,
		Height:     cc.Height,
		X:          cc.X,
		Y:          cc.Y,
		Mode:       uint32(cc.Mode),
		Rotation:   RotationName(cc.Rotation),
		Reflection: ReflectionName(cc.Rotation),
	}
}

package event

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputChange is a decoded output reconnection notification.
type OutputChange struct {
	Output     uint32 `json:"output" yaml:"output"`
	Crtc       uint32 `json:"crtc" yaml:"crtc"`
	Mode       uint32 `json:"mode" yaml:"mode"`
	Connection string `json:"connection" yaml:"connection"`
}

func (e OutputChange) String() string {
	return fmt.Sprintf("XRROutputChangeNotifyEvent output=0x%x crtc=0x%x mode=0x%x connection=%s",
		e.Output, e.Crtc, e.Mode, e.Connection)
}

// CrtcChange is a decoded CRTC geometry/transform notification.
type CrtcChange struct {
	Crtc       uint32 `json:"crtc" yaml:"crtc"`
	Width      uint16 `json:"width" yaml:"width"`
	Height     uint16 `json:"height" yaml:"height"`
	X          int16  `json:"x" yaml:"x"`
	Y          int16  `json:"y" yaml:"y"`
	Mode       uint32 `json:"mode" yaml:"mode"`
	Rotation   string `json:"rotation" yaml:"rotation"`
	Reflection string `json:"reflection" yaml:"reflection"`
}

func (e CrtcChange) String() string {
	return fmt.Sprintf("XRRCrtcChangeNotifyEvent crtc=0x%x res=%dx%d pos=%dx%d mode=0x%x rotation=%s reflection=%s",
		e.Crtc, e.Width, e.Height, e.X, e.Y, e.Mode, e.Rotation, e.Reflection)
}

// Format selects the stdout encoding of decoded notifications.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a --format argument.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format: %q (want text, json or yaml)", s)
	}
}

// Encode writes v to w in the selected format, one line per value for text
// and json, one document per value for yaml.
func Encode(w io.Writer, format Format, v fmt.Stringer) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		return enc.Encode(v)
	case FormatYAML:
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, v.String())
		return err
	}
}

package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/randr"

	"github.com/m10k/xrandrwait/internal/event"
)

// OutputInfo is a point-in-time description of one output, used by list
// mode. Geometry fields are only meaningful while Active is true.
type OutputInfo struct {
	Output     uint32 `json:"output" yaml:"output"`
	Name       string `json:"name" yaml:"name"`
	Connection string `json:"connection" yaml:"connection"`
	Active     bool   `json:"active" yaml:"active"`
	Crtc       uint32 `json:"crtc" yaml:"crtc"`
	Width      uint16 `json:"width" yaml:"width"`
	Height     uint16 `json:"height" yaml:"height"`
	X          int16  `json:"x" yaml:"x"`
	Y          int16  `json:"y" yaml:"y"`
	Mode       uint32 `json:"mode" yaml:"mode"`
	Rotation   string `json:"rotation" yaml:"rotation"`
	Reflection string `json:"reflection" yaml:"reflection"`
	Primary    bool   `json:"primary" yaml:"primary"`
}

func (o OutputInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "output=0x%x name=%s connection=%s", o.Output, o.Name, o.Connection)
	if o.Active {
		fmt.Fprintf(&b, " crtc=0x%x res=%dx%d pos=%dx%d mode=0x%x rotation=%s reflection=%s",
			o.Crtc, o.Width, o.Height, o.X, o.Y, o.Mode, o.Rotation, o.Reflection)
	}
	if o.Primary {
		b.WriteString(" primary")
	}
	return b.String()
}

// Outputs queries the server for the current state of every output known to
// the screen. Outputs whose CRTC cannot be queried are reported without
// geometry rather than dropped.
func (c *Connection) Outputs() ([]OutputInfo, error) {
	conn := c.xu.Conn()

	resources, err := randr.GetScreenResources(conn, c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("x11: cannot get screen resources: %w", err)
	}

	var primary randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.root).Reply(); err == nil {
		primary = reply.Output
	}

	infos := make([]OutputInfo, 0, len(resources.Outputs))
	for _, output := range resources.Outputs {
		outputInfo, err := randr.GetOutputInfo(conn, output, resources.ConfigTimestamp).Reply()
		if err != nil {
			c.logger.Debug("skipping output", "output", uint32(output), "error", err)
			continue
		}

		info := OutputInfo{
			Output:     uint32(output),
			Name:       string(outputInfo.Name),
			Connection: event.ConnectionName(outputInfo.Connection),
			Crtc:       uint32(outputInfo.Crtc),
			Primary:    output == primary,
		}

		if outputInfo.Crtc != 0 {
			if crtcInfo, err := randr.GetCrtcInfo(conn, outputInfo.Crtc, resources.ConfigTimestamp).Reply(); err == nil {
				info.Active = true
				info.Width = crtcInfo.Width
				info.Height = crtcInfo.Height
				info.X = crtcInfo.X
				info.Y = crtcInfo.Y
				info.Mode = uint32(crtcInfo.Mode)
				info.Rotation = event.RotationName(crtcInfo.Rotation)
				info.Reflection = event.ReflectionName(crtcInfo.Rotation)
			}
		}

		infos = append(infos, info)
	}

	return infos, nil
}

package synth

import (
	"github.com/go-vgo/robotgo"

	"github.com/soar/exilepad/internal/binding"
)

// robotgo names that differ from the configuration names.
var robotgoKeys = map[binding.Key]string{
	binding.KeyEscape:     "esc",
	binding.KeyUpArrow:    "up",
	binding.KeyDownArrow:  "down",
	binding.KeyLeftArrow:  "left",
	binding.KeyRightArrow: "right",
	binding.KeyControl:    "ctrl",
}

var robotgoMouse = map[binding.MouseButton]string{
	binding.MouseLeft:   "left",
	binding.MouseMiddle: "center",
	binding.MouseRight:  "right",
}

func robotgoKey(k binding.Key) string {
	if name, ok := robotgoKeys[k]; ok {
		return name
	}
	return k.String()
}

// RobotgoSink synthesizes input through robotgo.
type RobotgoSink struct{}

func (RobotgoSink) KeyDown(k binding.Key) error {
	return robotgo.KeyDown(robotgoKey(k))
}

func (RobotgoSink) KeyUp(k binding.Key) error {
	return robotgo.KeyUp(robotgoKey(k))
}

func (RobotgoSink) MouseDown(b binding.MouseButton) error {
	return robotgo.Toggle(robotgoMouse[b])
}

func (RobotgoSink) MouseUp(b binding.MouseButton) error {
	return robotgo.Toggle(robotgoMouse[b], "up")
}

func (RobotgoSink) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Location returns the current cursor position.
func (RobotgoSink) Location() (x, y float64, ok bool) {
	ix, iy := robotgo.Location()
	return float64(ix), float64(iy), true
}

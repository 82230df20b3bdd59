package gamepad

// Button is a logical controller button, independent of the physical label
// printed on a particular controller.
type Button uint8

const (
	ButtonA Button = iota // south face
	ButtonB               // east face
	ButtonX               // west face
	ButtonY               // north face
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight
	ButtonStart
	ButtonBack
	ButtonBumperLeft
	ButtonBumperRight
	ButtonTriggerLeft
	ButtonTriggerRight
	ButtonLeftStick
	ButtonRightStick

	buttonCount
)

var buttonNames = [buttonCount]string{
	ButtonA:            "a",
	ButtonB:            "b",
	ButtonX:            "x",
	ButtonY:            "y",
	ButtonDpadUp:       "dpad_up",
	ButtonDpadDown:     "dpad_down",
	ButtonDpadLeft:     "dpad_left",
	ButtonDpadRight:    "dpad_right",
	ButtonStart:        "start",
	ButtonBack:         "back",
	ButtonBumperLeft:   "bumper_left",
	ButtonBumperRight:  "bumper_right",
	ButtonTriggerLeft:  "trigger_left",
	ButtonTriggerRight: "trigger_right",
	ButtonLeftStick:    "left_analog",
	ButtonRightStick:   "right_analog",
}

// String returns the configuration name of the button.
func (b Button) String() string {
	if b >= buttonCount {
		return "unknown"
	}
	return buttonNames[b]
}

// IsTrigger reports whether the button is an analog trigger read as a button.
func (b Button) IsTrigger() bool {
	return b == ButtonTriggerLeft || b == ButtonTriggerRight
}

// Buttons returns every logical button in canonical order.
func Buttons() []Button {
	all := make([]Button, 0, buttonCount)
	for b := Button(0); b < buttonCount; b++ {
		all = append(all, b)
	}
	return all
}

// ParseButton looks up a logical button by its configuration name.
func ParseButton(name string) (Button, bool) {
	for b, n := range buttonNames {
		if n == name {
			return Button(b), true
		}
	}
	return 0, false
}

// Stick identifies one of the two analog sticks.
type Stick uint8

const (
	StickLeft Stick = iota
	StickRight
)

func (s Stick) String() string {
	if s == StickRight {
		return "right"
	}
	return "left"
}

// Axis identifies a stick axis.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// EventType enumerates the low-level events produced by the poller.
type EventType uint8

const (
	EventButton EventType = iota
	EventAxis
	EventConnected
	EventDisconnected
)

func (t EventType) String() string {
	switch t {
	case EventButton:
		return "button"
	case EventAxis:
		return "axis"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Event is a single gamepad change. Value is the activation (0..1) for
// button events and the raw axis position (-1..1) for axis events.
type Event struct {
	Type           EventType
	Button         Button
	Stick          Stick
	Axis           Axis
	Value          float64
	Name           string
	ControllerType string
}

func ButtonChanged(b Button, activation float64) Event {
	return Event{Type: EventButton, Button: b, Value: activation}
}

func AxisChanged(s Stick, a Axis, value float64) Event {
	return Event{Type: EventAxis, Stick: s, Axis: a, Value: value}
}

func Connected(name, controllerType string) Event {
	return Event{Type: EventConnected, Name: name, ControllerType: controllerType}
}

func Disconnected() Event {
	return Event{Type: EventDisconnected}
}

package gamepad

// AxisTarget is what a raw joystick axis drives.
type AxisTarget uint8

const (
	TargetLeftX AxisTarget = iota
	TargetLeftY
	TargetRightX
	TargetRightY
	TargetTriggerLeft
	TargetTriggerRight
)

// AxisMapping defines how a raw axis index maps to a stick axis or trigger.
type AxisMapping struct {
	Index  int32
	Target AxisTarget
	Invert bool
	// For triggers: raw range. Some devices use -32768..32767, others 0..32767.
	RawMin int16
	RawMax int16
}

func (m AxisMapping) IsTrigger() bool {
	return m.Target == TargetTriggerLeft || m.Target == TargetTriggerRight
}

// ButtonMapping defines how a raw button index maps to a logical button.
type ButtonMapping struct {
	Index  int32
	Target Button
}

// DeviceMapping holds the complete mapping for a specific device type.
type DeviceMapping struct {
	Name    string
	Axes    []AxisMapping
	Buttons []ButtonMapping
	HasHat  bool
}

func (m *DeviceMapping) axis(index int32) (AxisMapping, bool) {
	for _, am := range m.Axes {
		if am.Index == index {
			return am, true
		}
	}
	return AxisMapping{}, false
}

func (m *DeviceMapping) button(index int32) (Button, bool) {
	for _, bm := range m.Buttons {
		if bm.Index == index {
			return bm.Target, true
		}
	}
	return 0, false
}

// Event translates a raw axis sample into a store event.
func (am AxisMapping) Event(raw int16) Event {
	switch am.Target {
	case TargetTriggerLeft:
		return ButtonChanged(ButtonTriggerLeft, RawTrigger(raw, am.RawMin, am.RawMax))
	case TargetTriggerRight:
		return ButtonChanged(ButtonTriggerRight, RawTrigger(raw, am.RawMin, am.RawMax))
	}
	v := RawAxis(raw)
	if am.Invert {
		v = -v
	}
	switch am.Target {
	case TargetLeftX:
		return AxisChanged(StickLeft, AxisX, v)
	case TargetLeftY:
		return AxisChanged(StickLeft, AxisY, v)
	case TargetRightX:
		return AxisChanged(StickRight, AxisX, v)
	default:
		return AxisChanged(StickRight, AxisY, v)
	}
}

const (
	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// HatEvents expands a hat bitmask into one event per d-pad direction.
func HatEvents(hat uint8) []Event {
	bit := func(mask uint8) float64 {
		if hat&mask != 0 {
			return 1
		}
		return 0
	}
	return []Event{
		ButtonChanged(ButtonDpadUp, bit(hatUp)),
		ButtonChanged(ButtonDpadRight, bit(hatRight)),
		ButtonChanged(ButtonDpadDown, bit(hatDown)),
		ButtonChanged(ButtonDpadLeft, bit(hatLeft)),
	}
}

// Built-in mappings for common controllers. Y axes are inverted so that
// pushing a stick up yields a positive value.

var standardAxes = []AxisMapping{
	{Index: 0, Target: TargetLeftX},
	{Index: 1, Target: TargetLeftY, Invert: true},
	{Index: 2, Target: TargetRightX},
	{Index: 3, Target: TargetRightY, Invert: true},
	{Index: 4, Target: TargetTriggerLeft, RawMin: -32768, RawMax: 32767},
	{Index: 5, Target: TargetTriggerRight, RawMin: -32768, RawMax: 32767},
}

var standardButtons = []ButtonMapping{
	{Index: 0, Target: ButtonA},
	{Index: 1, Target: ButtonB},
	{Index: 2, Target: ButtonX},
	{Index: 3, Target: ButtonY},
	{Index: 4, Target: ButtonBumperLeft},
	{Index: 5, Target: ButtonBumperRight},
	{Index: 6, Target: ButtonBack},
	{Index: 7, Target: ButtonStart},
	{Index: 8, Target: ButtonLeftStick},
	{Index: 9, Target: ButtonRightStick},
}

var xboxMapping = &DeviceMapping{
	Name:    "xbox",
	Axes:    standardAxes,
	Buttons: standardButtons,
	HasHat:  true,
}

var playstationMapping = &DeviceMapping{
	Name: "playstation",
	Axes: standardAxes,
	Buttons: []ButtonMapping{
		{Index: 0, Target: ButtonA},     // Cross
		{Index: 1, Target: ButtonB},     // Circle
		{Index: 2, Target: ButtonX},     // Square
		{Index: 3, Target: ButtonY},     // Triangle
		{Index: 4, Target: ButtonBack},  // Share / Create
		{Index: 6, Target: ButtonStart}, // Options
		{Index: 7, Target: ButtonLeftStick},
		{Index: 8, Target: ButtonRightStick},
		{Index: 9, Target: ButtonBumperLeft},   // L1
		{Index: 10, Target: ButtonBumperRight}, // R1
	},
	HasHat: true,
}

// The Switch Pro controller reports its triggers as digital buttons.
var switchProMapping = &DeviceMapping{
	Name: "switch_pro",
	Axes: standardAxes[:4],
	Buttons: append(append([]ButtonMapping{}, standardButtons...),
		ButtonMapping{Index: 11, Target: ButtonTriggerLeft},
		ButtonMapping{Index: 12, Target: ButtonTriggerRight},
	),
	HasHat: true,
}

var genericMapping = &DeviceMapping{
	Name:    "generic",
	Axes:    standardAxes,
	Buttons: standardButtons,
	HasHat:  true,
}

// Known vendor/product IDs.
type deviceKey struct {
	VendorID  uint16
	ProductID uint16
}

var knownDevices = map[deviceKey]*DeviceMapping{
	// Microsoft Xbox controllers
	{0x045E, 0x028E}: xboxMapping, // Xbox 360
	{0x045E, 0x02FF}: xboxMapping, // Xbox One
	{0x045E, 0x0B12}: xboxMapping, // Xbox Series X|S
	{0x045E, 0x0B13}: xboxMapping, // Xbox Series X|S (wireless)
	// Sony PlayStation controllers
	{0x054C, 0x0CE6}: playstationMapping, // DualSense
	{0x054C, 0x09CC}: playstationMapping, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationMapping, // DualShock 4 v1
	// Nintendo Switch Pro Controller
	{0x057E, 0x2009}: switchProMapping,
}

// GetMapping returns the appropriate mapping for a device identified by vendor/product ID.
// Falls back to generic mapping if no specific mapping is found.
func GetMapping(vendorID, productID uint16) *DeviceMapping {
	key := deviceKey{VendorID: vendorID, ProductID: productID}
	if m, ok := knownDevices[key]; ok {
		return m
	}
	return genericMapping
}

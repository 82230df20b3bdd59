package gamepad

import "math"

// ButtonState is the debounced state of one logical button. The edge flags
// stay set until the consumer clears them.
type ButtonState struct {
	Held          bool
	JustPressed   bool
	JustUnpressed bool
}

// AnalogStick holds deadzone-compensated stick axes.
type AnalogStick struct {
	X        float64
	Y        float64
	Deadzone float64
}

func (s *AnalogStick) setAxis(a Axis, raw float64) {
	v := NormalizeAxis(raw, s.Deadzone)
	if a == AxisX {
		s.X = v
	} else {
		s.Y = v
	}
}

// Angle follows the math convention: 0 points right, positive is counter-clockwise.
func (s AnalogStick) Angle() float64 {
	return math.Atan2(s.Y, s.X)
}

func (s AnalogStick) InDeadzone() bool {
	return s.X == 0 && s.Y == 0
}

func (s AnalogStick) Direction() Vector {
	return Vector{X: s.X, Y: s.Y}
}

// Magnitude is the stick deflection clamped to 0..1.
func (s AnalogStick) Magnitude() float64 {
	return math.Min(1, math.Hypot(s.X, s.Y))
}

// PullAmount is the smoothed deflection in 0..1.
func (s AnalogStick) PullAmount() float64 {
	return smoothstep(s.Magnitude())
}

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Store holds the live controller state. It is owned by the input thread;
// other goroutines read it only through Snapshot values handed to them.
type Store struct {
	buttons          [buttonCount]ButtonState
	triggerHold      [2]float64
	triggerThreshold float64
	sticks           [2]AnalogStick

	connected      bool
	name           string
	controllerType string
}

func NewStore(deadzone, triggerThreshold float64) *Store {
	s := &Store{triggerThreshold: triggerThreshold}
	s.sticks[StickLeft].Deadzone = deadzone
	s.sticks[StickRight].Deadzone = deadzone
	return s
}

// Apply routes a poller event into the store.
func (s *Store) Apply(ev Event) {
	switch ev.Type {
	case EventButton:
		s.ApplyButton(ev.Button, ev.Value)
	case EventAxis:
		s.ApplyAxis(ev.Stick, ev.Axis, ev.Value)
	case EventConnected:
		s.Reset()
		s.connected = true
		s.name = ev.Name
		s.controllerType = ev.ControllerType
	case EventDisconnected:
		s.Reset()
		s.connected = false
		s.name = ""
		s.controllerType = ""
	}
}

// ApplyButton records a new activation value for b.
func (s *Store) ApplyButton(b Button, activation float64) {
	if b >= buttonCount {
		return
	}
	var next ButtonState
	if b.IsTrigger() {
		i := triggerIndex(b)
		next = NormalizeTrigger(activation, s.triggerThreshold, s.triggerHold[i])
		s.triggerHold[i] = activation
	} else {
		next = nextButtonState(activation, 0, s.buttons[b].Held)
	}

	cur := &s.buttons[b]
	cur.Held = next.Held
	switch {
	case next.JustPressed && cur.JustUnpressed:
		// released and pressed again before anyone looked: net no-op
		cur.JustUnpressed = false
	case next.JustPressed:
		cur.JustPressed = true
	case next.JustUnpressed && cur.JustPressed:
		cur.JustPressed = false
	case next.JustUnpressed:
		cur.JustUnpressed = true
	}
}

// ApplyAxis records a raw axis sample for a stick.
func (s *Store) ApplyAxis(st Stick, a Axis, value float64) {
	if st > StickRight {
		return
	}
	s.sticks[st].setAxis(a, value)
}

// Reset returns every button to released and every stick to center.
// Deadzones and the trigger threshold are kept.
func (s *Store) Reset() {
	s.buttons = [buttonCount]ButtonState{}
	s.triggerHold = [2]float64{}
	for i := range s.sticks {
		s.sticks[i].X, s.sticks[i].Y = 0, 0
	}
}

// Button returns a pointer into live state so the caller can clear edge flags.
func (s *Store) Button(b Button) *ButtonState {
	return &s.buttons[b]
}

// Buttons returns a name-keyed view aliasing live state. Clearing a flag
// through the view clears it in the store.
func (s *Store) Buttons() map[Button]*ButtonState {
	view := make(map[Button]*ButtonState, buttonCount)
	for b := Button(0); b < buttonCount; b++ {
		view[b] = &s.buttons[b]
	}
	return view
}

func (s *Store) LeftStick() AnalogStick  { return s.sticks[StickLeft] }
func (s *Store) RightStick() AnalogStick { return s.sticks[StickRight] }
func (s *Store) Connected() bool         { return s.connected }

func triggerIndex(b Button) int {
	if b == ButtonTriggerRight {
		return 1
	}
	return 0
}

type SticksView struct {
	Left  Vector `json:"left"`
	Right Vector `json:"right"`
}

type TriggersView struct {
	LT float64 `json:"lt"`
	RT float64 `json:"rt"`
}

// ControllerView is a copy of the store for display.
type ControllerView struct {
	Connected      bool            `json:"connected"`
	ControllerType string          `json:"controllerType"`
	Name           string          `json:"name"`
	Buttons        map[string]bool `json:"buttons"`
	Sticks         SticksView      `json:"sticks"`
	Triggers       TriggersView    `json:"triggers"`
}

func (s *Store) Snapshot() ControllerView {
	v := ControllerView{
		Connected:      s.connected,
		ControllerType: s.controllerType,
		Name:           s.name,
		Buttons:        make(map[string]bool, buttonCount),
		Sticks: SticksView{
			Left:  s.sticks[StickLeft].Direction(),
			Right: s.sticks[StickRight].Direction(),
		},
		Triggers: TriggersView{LT: s.triggerHold[0], RT: s.triggerHold[1]},
	}
	for b := Button(0); b < buttonCount; b++ {
		v.Buttons[b.String()] = s.buttons[b].Held
	}
	return v
}

package gamepad

import "math"

// RawAxis converts a raw SDL axis value (-32768..32767) to -1.0..1.0.
func RawAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// RawTrigger converts a raw trigger value to 0.0..1.0.
func RawTrigger(raw int16, rawMin, rawMax int16) float64 {
	if rawMax == rawMin {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / (float64(rawMax) - float64(rawMin))
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}

// NormalizeAxis rescales v so the deadzone band maps to 0 and the remaining
// travel maps linearly onto 0..1 (or -1..0).
func NormalizeAxis(v, deadzone float64) float64 {
	switch {
	case v > deadzone:
		return (v - deadzone) / (1 - deadzone)
	case v < -deadzone:
		return (v + deadzone) / (1 - deadzone)
	}
	return 0
}

// NormalizeTrigger treats an analog trigger as a button. The press edge fires
// when raw rises above threshold and the release edge when it falls back to
// or below it.
func NormalizeTrigger(raw, threshold, prevHoldAmount float64) ButtonState {
	return nextButtonState(raw, threshold, prevHoldAmount > threshold)
}

func nextButtonState(v, threshold float64, prevHeld bool) ButtonState {
	held := v > threshold
	return ButtonState{
		Held:          held,
		JustPressed:   held && !prevHeld,
		JustUnpressed: !held && prevHeld,
	}
}

// smoothstep maps a magnitude in 0..1 onto an ease-in/ease-out curve.
func smoothstep(m float64) float64 {
	if m <= 0 {
		return 0
	}
	if m >= 1 {
		return 1
	}
	return m * m * (3 - 2*m)
}

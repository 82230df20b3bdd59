package orchestrator

import (
	"maps"
	"math"
	"slices"

	"github.com/soar/exilepad/internal/aim"
	"github.com/soar/exilepad/internal/gamepad"
)

type Session struct {
	Connected      bool   `json:"connected"`
	Paused         bool   `json:"paused"`
	GameActive     bool   `json:"gameActive"`
	ControllerType string `json:"controllerType"`
	ShowCrosshair  bool   `json:"showCrosshair"`
	ShowButtons    bool   `json:"showButtons"`
}

type Motion struct {
	Walking   bool       `json:"walking"`
	WalkAngle float64    `json:"walkAngle"`
	WalkPull  float64    `json:"walkPull"`
	Aiming    bool       `json:"aiming"`
	AimAngle  float64    `json:"aimAngle"`
	AimPull   float64    `json:"aimPull"`
	Cursor    *aim.Point `json:"cursor,omitempty"` // last cursor target this frame
}

type Abilities struct {
	Held         bool     `json:"held"`
	Names        []string `json:"names"`
	HoldingChord bool     `json:"holdingChord"`
}

// Status is what the overlay sees after each frame.
type Status struct {
	Session    Session                `json:"session"`
	Motion     Motion                 `json:"motion"`
	Abilities  Abilities              `json:"abilities"`
	Controller gamepad.ControllerView `json:"controller"`
}

type Delta struct {
	Session    *Session                `json:"session,omitempty"`
	Motion     *Motion                 `json:"motion,omitempty"`
	Abilities  *Abilities              `json:"abilities,omitempty"`
	Controller *gamepad.ControllerView `json:"controller,omitempty"`
}

func (d *Delta) IsEmpty() bool {
	return d.Session == nil &&
		d.Motion == nil &&
		d.Abilities == nil &&
		d.Controller == nil
}

const analogThreshold = 0.01

func floatEqual(a, b float64) bool {
	return math.Abs(a-b) < analogThreshold
}

func pointEqual(a, b *aim.Point) bool {
	if a == nil || b == nil {
		return a == b
	}
	return floatEqual(a.X, b.X) && floatEqual(a.Y, b.Y)
}

func vectorEqual(a, b gamepad.Vector) bool {
	return floatEqual(a.X, b.X) && floatEqual(a.Y, b.Y)
}

// ComputeDelta returns the sections of new_ that differ from old. Analog
// values count as changed only beyond a small threshold.
func ComputeDelta(old, new_ Status) *Delta {
	d := &Delta{}

	if old.Session != new_.Session {
		d.Session = &new_.Session
	}

	om, nm := old.Motion, new_.Motion
	if om.Walking != nm.Walking || om.Aiming != nm.Aiming ||
		!floatEqual(om.WalkAngle, nm.WalkAngle) ||
		!floatEqual(om.WalkPull, nm.WalkPull) ||
		!floatEqual(om.AimAngle, nm.AimAngle) ||
		!floatEqual(om.AimPull, nm.AimPull) ||
		!pointEqual(om.Cursor, nm.Cursor) {
		d.Motion = &new_.Motion
	}

	oa, na := old.Abilities, new_.Abilities
	if oa.Held != na.Held || oa.HoldingChord != na.HoldingChord || !slices.Equal(oa.Names, na.Names) {
		d.Abilities = &new_.Abilities
	}

	oc, nc := old.Controller, new_.Controller
	if oc.Connected != nc.Connected ||
		oc.ControllerType != nc.ControllerType ||
		oc.Name != nc.Name ||
		!maps.Equal(oc.Buttons, nc.Buttons) ||
		!vectorEqual(oc.Sticks.Left, nc.Sticks.Left) ||
		!vectorEqual(oc.Sticks.Right, nc.Sticks.Right) ||
		!floatEqual(oc.Triggers.LT, nc.Triggers.LT) ||
		!floatEqual(oc.Triggers.RT, nc.Triggers.RT) {
		d.Controller = &new_.Controller
	}

	return d
}

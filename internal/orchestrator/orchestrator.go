package orchestrator

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/soar/exilepad/internal/aim"
	"github.com/soar/exilepad/internal/binding"
	"github.com/soar/exilepad/internal/gamepad"
	"github.com/soar/exilepad/internal/synth"
)

// Window reports the game window rectangle for the current frame.
type Window interface {
	Update()
	Window() aim.Window
	Windowed() bool
	GameActive() bool
}

// Locator reports the current cursor position.
type Locator interface {
	Location() (x, y float64, ok bool)
}

// Options is the per-button and geometry configuration of the planner.
type Options struct {
	Aimable        map[gamepad.Button]bool
	Tiers          map[gamepad.Button]aim.Tier
	Geometry       aim.Geometry
	Insets         aim.Insets
	ControllerType string // overrides the detected type when set
	ShowCrosshair  bool
	ShowButtons    bool
}

// PlannedAction is one button transition to realize this frame.
type PlannedAction struct {
	Button  gamepad.Button
	Target  binding.Target
	Press   bool
	Aimable bool
	Tier    aim.Tier
}

const changesBuffer = 64

// Orchestrator runs the per-frame input translation. Frame, Shutdown and
// Status must be called from the input thread; SetPaused may be called from
// any goroutine.
type Orchestrator struct {
	store    *gamepad.Store
	resolver *binding.Resolver
	engine   *synth.Engine
	window   Window
	cursor   Locator
	opts     Options
	logger   *slog.Logger

	paused    atomic.Bool
	wasPaused bool
	connected bool
	walkClick bool

	status  Status
	last    Status
	changes chan Status
}

func New(store *gamepad.Store, resolver *binding.Resolver, engine *synth.Engine,
	win Window, cursor Locator, opts Options, logger *slog.Logger) *Orchestrator {
	if opts.Aimable == nil {
		opts.Aimable = map[gamepad.Button]bool{}
	}
	if opts.Tiers == nil {
		opts.Tiers = map[gamepad.Button]aim.Tier{}
	}
	return &Orchestrator{
		store:    store,
		resolver: resolver,
		engine:   engine,
		window:   win,
		cursor:   cursor,
		opts:     opts,
		logger:   logger,
		changes:  make(chan Status, changesBuffer),
	}
}

// Changes delivers a status snapshot whenever a frame changes it. Snapshots
// are dropped while the channel is full.
func (o *Orchestrator) Changes() <-chan Status {
	return o.changes
}

// SetPaused stops or resumes input synthesis from the next frame on.
func (o *Orchestrator) SetPaused(paused bool) {
	o.paused.Store(paused)
}

func (o *Orchestrator) Paused() bool {
	return o.paused.Load()
}

// Status returns the status computed by the most recent frame.
func (o *Orchestrator) Status() Status {
	return o.status
}

// Shutdown releases every held output.
func (o *Orchestrator) Shutdown() {
	o.engine.ReleaseAll()
	o.walkClick = false
	o.logger.Info("Released all synthesized input")
}

// Frame applies one batch of poller events and synthesizes the resulting
// input.
func (o *Orchestrator) Frame(events []gamepad.Event) {
	for _, ev := range events {
		o.store.Apply(ev)
		switch ev.Type {
		case gamepad.EventConnected:
			o.connected = true
			o.logger.Info("Controller connected", "name", ev.Name, "type", ev.ControllerType)
		case gamepad.EventDisconnected:
			if o.connected {
				o.logger.Info("Controller disconnected")
			}
			o.connected = false
			o.releaseAll()
		}
	}

	paused := o.paused.Load()
	if paused != o.wasPaused {
		o.wasPaused = paused
		if paused {
			o.releaseAll()
			o.logger.Info("Controller input paused")
		} else {
			o.logger.Info("Controller input resumed")
		}
	}

	o.window.Update()
	o.status = Status{}

	if paused || !o.connected {
		o.discardTransitions()
		o.publish()
		return
	}

	actions := o.plan()

	left, right := o.store.LeftStick(), o.store.RightStick()
	walking, aiming := !left.InDeadzone(), !right.InDeadzone()
	walkAngle, aimAngle := left.Angle(), right.Angle()
	o.status.Motion = Motion{
		Walking:   walking,
		WalkAngle: walkAngle,
		WalkPull:  left.PullAmount(),
		Aiming:    aiming,
		AimAngle:  aimAngle,
		AimPull:   right.PullAmount(),
	}

	g := o.opts.Geometry
	moved := false
	for _, a := range actions {
		if a.Target.IsEmpty() {
			continue
		}
		if !a.Press {
			o.engine.Release(a.Target)
			continue
		}
		if a.Target.Primary() == binding.BasicAttack {
			o.walkClick = false
		}
		switch {
		case a.Aimable && walking && aiming:
			o.moveRadial(g.Distance(a.Tier), aimAngle)
			moved = true
		case a.Aimable && walking:
			o.moveRadial(g.Distance(a.Tier), walkAngle)
			moved = true
		case a.Tier != aim.TierNone && walking:
			o.moveRadial(g.Distance(a.Tier), walkAngle)
			moved = true
		}
		o.engine.Press(a.Target)
	}

	if walking && o.engine.IsAbilityHeld() {
		radius, aimHeld := o.heldReach()
		angle := walkAngle
		if aimHeld && aiming {
			angle = aimAngle
		}
		o.moveRadial(radius, angle)
		moved = true
	}

	if aiming && !walking {
		x, y, ok := o.cursor.Location()
		dir := right.Direction()
		o.moveTo(g.FreeAim(aim.Vector{X: dir.X, Y: dir.Y}, aim.Point{X: x, Y: y}, ok))
		moved = true
	}

	if walking && !moved {
		o.moveRadial(g.Radii.Walk*left.Magnitude(), walkAngle)
	}

	// Walking keeps the basic attack down, re-pressing it after a binding
	// released it. Only a click pressed here is released when walking stops.
	switch {
	case walking && !o.engine.HoldingChordOn(binding.BasicAttack):
		if !o.engine.IsHeld(binding.BasicAttack) {
			o.engine.Press(binding.BasicAttack)
			o.walkClick = true
		}
	case !walking && o.walkClick:
		o.engine.Release(binding.BasicAttack)
		o.walkClick = false
	}

	o.publish()
}

// plan drains button transitions in canonical order, clearing each flag it
// consumes.
func (o *Orchestrator) plan() []PlannedAction {
	var actions []PlannedAction
	for _, b := range gamepad.Buttons() {
		st := o.store.Button(b)
		if st.JustPressed && st.JustUnpressed {
			panic(fmt.Sprintf("orchestrator: button %s reports press and release in one frame", b))
		}
		if !st.JustPressed && !st.JustUnpressed {
			continue
		}
		a := PlannedAction{
			Button: b,
			Target: o.resolver.Resolve(b),
			Press:  st.JustPressed,
		}
		if a.Press {
			a.Aimable = o.opts.Aimable[b]
			a.Tier = o.opts.Tiers[b]
		}
		st.JustPressed, st.JustUnpressed = false, false
		actions = append(actions, a)
	}
	return actions
}

// heldReach returns the farthest configured radius among held abilities,
// falling back to the walk radius, and whether any held ability is aimable.
func (o *Orchestrator) heldReach() (radius float64, aimable bool) {
	radius = -1
	for _, id := range o.engine.HeldAbilityIdentities() {
		b, ok := o.resolver.AbilityNameFor(id)
		if !ok {
			continue
		}
		if o.opts.Aimable[b] {
			aimable = true
		}
		if t := o.opts.Tiers[b]; t != aim.TierNone {
			radius = max(radius, o.opts.Geometry.Distance(t))
		}
	}
	if radius < 0 {
		radius = o.opts.Geometry.Radii.Walk
	}
	return radius, aimable
}

func (o *Orchestrator) moveRadial(radius, angle float64) {
	o.moveTo(o.opts.Geometry.RadialPosition(radius, angle, o.window.Window()))
}

func (o *Orchestrator) moveTo(p aim.Point) {
	if o.window.Windowed() {
		p = aim.ClampToWindow(p, o.window.Window(), o.opts.Insets)
	}
	o.engine.Move(p.X, p.Y)
	o.status.Motion.Cursor = &p
}

func (o *Orchestrator) discardTransitions() {
	for _, st := range o.store.Buttons() {
		st.JustPressed, st.JustUnpressed = false, false
	}
}

func (o *Orchestrator) releaseAll() {
	o.engine.ReleaseAll()
	o.walkClick = false
}

func (o *Orchestrator) publish() {
	view := o.store.Snapshot()
	if o.opts.ControllerType != "" && view.Connected {
		view.ControllerType = o.opts.ControllerType
	}
	o.status.Session = Session{
		Connected:      o.connected,
		Paused:         o.wasPaused,
		GameActive:     o.window.GameActive(),
		ControllerType: view.ControllerType,
		ShowCrosshair:  o.opts.ShowCrosshair,
		ShowButtons:    o.opts.ShowButtons,
	}
	o.status.Controller = view

	held := o.engine.HeldAbilityIdentities()
	o.status.Abilities = Abilities{
		Held:         len(held) > 0,
		HoldingChord: o.engine.HoldingPrimaryForChord(),
	}
	for _, id := range held {
		name := id.String()
		if b, ok := o.resolver.AbilityNameFor(id); ok {
			name = b.String()
		}
		o.status.Abilities.Names = append(o.status.Abilities.Names, name)
	}

	if ComputeDelta(o.last, o.status).IsEmpty() {
		return
	}
	o.last = o.status
	select {
	case o.changes <- o.status:
	default:
	}
}

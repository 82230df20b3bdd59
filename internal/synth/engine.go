package synth

import (
	"log/slog"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/soar/exilepad/internal/binding"
)

// Sink delivers synthesized input to the operating system.
type Sink interface {
	KeyDown(k binding.Key) error
	KeyUp(k binding.Key) error
	MouseDown(b binding.MouseButton) error
	MouseUp(b binding.MouseButton) error
	MoveTo(x, y int) error
}

const (
	DefaultSettleDelay  = 20 * time.Millisecond
	DefaultReleaseDelay = 10 * time.Millisecond
)

// Engine turns press and release requests into OS input events, emitting
// each OS press at most once while the output is held. It is not safe for
// concurrent use; the input thread owns it.
type Engine struct {
	sink   Sink
	logger *slog.Logger

	settle  time.Duration
	release time.Duration
	sleep   func(time.Duration)

	heldMouse [binding.MouseRight + 1]bool
	heldKeys  map[binding.Key]string
	chords    map[binding.Target]bool

	abilities []binding.Target
	isAbility map[binding.Target]bool
}

type Option func(*Engine)

// WithChordDelays overrides the modifier settle and release delays.
func WithChordDelays(settle, release time.Duration) Option {
	return func(e *Engine) {
		e.settle = settle
		e.release = release
	}
}

// WithSleep replaces time.Sleep for chord sequencing.
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithAbilities sets the output identities reported by HeldAbilityIdentities.
func WithAbilities(ids []binding.Target) Option {
	return func(e *Engine) {
		e.abilities = nil
		e.isAbility = make(map[binding.Target]bool, len(ids))
		for _, id := range ids {
			id = id.Primary()
			if id.IsEmpty() || e.isAbility[id] {
				continue
			}
			e.isAbility[id] = true
			e.abilities = append(e.abilities, id)
		}
	}
}

func New(sink Sink, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		sink:      sink,
		logger:    logger,
		settle:    DefaultSettleDelay,
		release:   DefaultReleaseDelay,
		sleep:     time.Sleep,
		heldKeys:  make(map[binding.Key]string),
		chords:    make(map[binding.Target]bool),
		isAbility: make(map[binding.Target]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Press holds the output of t. Pressing an already held identity is a no-op.
func (e *Engine) Press(t binding.Target) {
	switch t.Kind() {
	case binding.KindEmpty:
		return
	case binding.KindKey, binding.KindMouse:
		e.pressPrimary(t, t.String())
	case binding.KindChord:
		e.pressChord(t)
	}
}

// Release lets go of the output of t. Releasing an identity that is not held
// is a no-op. Releasing a chord never touches its modifier.
func (e *Engine) Release(t binding.Target) {
	switch t.Kind() {
	case binding.KindEmpty:
		return
	case binding.KindKey, binding.KindMouse:
		e.releasePrimary(t)
	case binding.KindChord:
		delete(e.chords, t)
		e.releasePrimary(t.Primary())
	}
}

// pressChord blips the modifier around the primary even when the primary is
// already held.
func (e *Engine) pressChord(t binding.Target) {
	primary := t.Primary()
	e.chords[t] = true

	mod := t.Modifier()
	_, modHeld := e.heldKeys[mod]
	if !modHeld {
		e.keyDown(mod)
		e.sleep(e.settle)
	}
	e.pressPrimary(primary, t.String())
	if !modHeld {
		e.sleep(e.release)
		e.keyUp(mod)
	}
}

func (e *Engine) pressPrimary(t binding.Target, label string) {
	if e.IsHeld(t) {
		return
	}
	switch t.Kind() {
	case binding.KindKey:
		e.heldKeys[t.Key()] = label
		e.keyDown(t.Key())
	case binding.KindMouse:
		e.heldMouse[t.MouseButton()] = true
		e.mouseDown(t.MouseButton())
	}
}

func (e *Engine) releasePrimary(t binding.Target) {
	if !e.IsHeld(t) {
		return
	}
	for c := range e.chords {
		if c.Primary() == t {
			delete(e.chords, c)
		}
	}
	switch t.Kind() {
	case binding.KindKey:
		delete(e.heldKeys, t.Key())
		e.keyUp(t.Key())
	case binding.KindMouse:
		e.heldMouse[t.MouseButton()] = false
		e.mouseUp(t.MouseButton())
	}
}

// Move positions the cursor. Moves are never deduplicated.
func (e *Engine) Move(x, y float64) {
	ix, iy := int(math.Round(x)), int(math.Round(y))
	if err := e.sink.MoveTo(ix, iy); err != nil {
		e.logger.Warn("Failed to move cursor", "x", ix, "y", iy, "error", err)
	}
}

// IsHeld reports whether the output identity of t is currently held.
func (e *Engine) IsHeld(t binding.Target) bool {
	t = t.Primary()
	switch t.Kind() {
	case binding.KindKey:
		_, ok := e.heldKeys[t.Key()]
		return ok
	case binding.KindMouse:
		return e.heldMouse[t.MouseButton()]
	}
	return false
}

// HeldLabel returns the binding that pressed k, or "" if k is not held.
func (e *Engine) HeldLabel(k binding.Key) string {
	return e.heldKeys[k]
}

// HeldAbilityIdentities lists the held outputs that belong to the ability set.
func (e *Engine) HeldAbilityIdentities() []binding.Target {
	var held []binding.Target
	for _, id := range e.abilities {
		if e.IsHeld(id) {
			held = append(held, id)
		}
	}
	return held
}

func (e *Engine) IsAbilityHeld() bool {
	for _, id := range e.abilities {
		if e.IsHeld(id) {
			return true
		}
	}
	return false
}

// HoldingPrimaryForChord reports whether any chord binding is holding its
// primary output.
func (e *Engine) HoldingPrimaryForChord() bool {
	return len(e.chords) > 0
}

// HoldingChordOn reports whether a chord binding is holding primary.
func (e *Engine) HoldingChordOn(primary binding.Target) bool {
	primary = primary.Primary()
	for c := range e.chords {
		if c.Primary() == primary {
			return true
		}
	}
	return false
}

// ReleaseAll releases every held output, mouse buttons first then keys in
// ascending order.
func (e *Engine) ReleaseAll() {
	clear(e.chords)
	for b := binding.MouseLeft; b <= binding.MouseRight; b++ {
		if e.heldMouse[b] {
			e.heldMouse[b] = false
			e.mouseUp(b)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(e.heldKeys)) {
		delete(e.heldKeys, k)
		e.keyUp(k)
	}
}

func (e *Engine) keyDown(k binding.Key) {
	if err := e.sink.KeyDown(k); err != nil {
		e.logger.Warn("Failed to press key", "key", k.String(), "error", err)
	}
}

func (e *Engine) keyUp(k binding.Key) {
	if err := e.sink.KeyUp(k); err != nil {
		e.logger.Warn("Failed to release key", "key", k.String(), "error", err)
	}
}

func (e *Engine) mouseDown(b binding.MouseButton) {
	if err := e.sink.MouseDown(b); err != nil {
		e.logger.Warn("Failed to press mouse button", "button", b.String(), "error", err)
	}
}

func (e *Engine) mouseUp(b binding.MouseButton) {
	if err := e.sink.MouseUp(b); err != nil {
		e.logger.Warn("Failed to release mouse button", "button", b.String(), "error", err)
	}
}

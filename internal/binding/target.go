package binding

import "fmt"

// Kind tags the variant held by a Target.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindKey
	KindMouse
	KindChord
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindKey:
		return "key"
	case KindMouse:
		return "mouse"
	case KindChord:
		return "chord"
	}
	return "unknown"
}

// Target is what a logical controller button produces: nothing, a key, a
// mouse button, or a chord of one modifier key plus one key or mouse button.
// Targets are comparable and usable as map keys.
type Target struct {
	kind     Kind
	key      Key
	mouse    MouseButton
	modifier Key
}

func Empty() Target { return Target{} }

func KeyTarget(k Key) Target { return Target{kind: KindKey, key: k} }

func Mouse(b MouseButton) Target { return Target{kind: KindMouse, mouse: b} }

// Chord builds a chord target. primary must be a key or mouse target and
// modifier must be a modifier key.
func Chord(primary Target, modifier Key) Target {
	if primary.kind != KindKey && primary.kind != KindMouse {
		panic(fmt.Sprintf("binding: chord primary must be a key or mouse button, got %s", primary.kind))
	}
	if !modifier.IsModifier() {
		panic(fmt.Sprintf("binding: %q is not a modifier key", modifier))
	}
	return Target{kind: KindChord, key: primary.key, mouse: primary.mouse, modifier: modifier}
}

func (t Target) Kind() Kind               { return t.kind }
func (t Target) Key() Key                 { return t.key }
func (t Target) MouseButton() MouseButton { return t.mouse }
func (t Target) Modifier() Key            { return t.modifier }
func (t Target) IsEmpty() bool            { return t.kind == KindEmpty }

// Primary strips the modifier from a chord. Other targets are returned as-is.
func (t Target) Primary() Target {
	if t.kind != KindChord {
		return t
	}
	if t.mouse != MouseNone {
		return Mouse(t.mouse)
	}
	return KeyTarget(t.key)
}

// String renders the target in the canonical configuration syntax.
func (t Target) String() string {
	switch t.kind {
	case KindKey:
		return t.key.String()
	case KindMouse:
		return t.mouse.String()
	case KindChord:
		return t.modifier.String() + "+" + t.Primary().String()
	}
	return ""
}

package binding

import (
	"fmt"
	"strings"
)

// ParseError reports a binding string that does not match the grammar.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid binding %q: %s", e.Input, e.Reason)
}

// Parse reads a binding string. Matching is case-insensitive and ignores
// surrounding whitespace.
//
//	binding  = "" | chord | primary
//	chord    = modifier "+" primary | modifier mouse
//	primary  = mouse | key
//	mouse    = "leftclick" | "middleclick" | "rightclick"
//	modifier = "alt" | "shift" | "control" | "ctrl"
//
// The unseparated chord form ("AltLeftClick") only matches when the text
// after the modifier is exactly a mouse token.
func Parse(s string) (Target, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	if in == "" {
		return Empty(), nil
	}

	if mod, rest, ok := strings.Cut(in, "+"); ok && rest != "" {
		modKey, ok := lookupModifier(strings.TrimSpace(mod))
		if !ok {
			return Target{}, &ParseError{Input: s, Reason: fmt.Sprintf("%q is not a modifier", mod)}
		}
		primary, ok := lookupPrimary(strings.TrimSpace(rest))
		if !ok {
			return Target{}, &ParseError{Input: s, Reason: fmt.Sprintf("unknown key or mouse button %q", rest)}
		}
		if primary.kind == KindKey && primary.key.IsModifier() {
			return Target{}, &ParseError{Input: s, Reason: "chord primary cannot be a modifier"}
		}
		return Chord(primary, modKey), nil
	}

	if t, ok := lookupPrimary(in); ok {
		return t, nil
	}

	for _, mod := range []string{"control", "ctrl", "shift", "alt"} {
		rest, ok := strings.CutPrefix(in, mod)
		if !ok {
			continue
		}
		if b, ok := LookupMouse(rest); ok {
			modKey, _ := lookupModifier(mod)
			return Chord(Mouse(b), modKey), nil
		}
	}

	return Target{}, &ParseError{Input: s, Reason: "unknown key or mouse button"}
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Target {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func lookupPrimary(tok string) (Target, bool) {
	if b, ok := LookupMouse(tok); ok {
		return Mouse(b), true
	}
	if k, ok := LookupKey(tok); ok {
		return KeyTarget(k), true
	}
	return Target{}, false
}

func lookupModifier(tok string) (Key, bool) {
	k, ok := LookupKey(tok)
	if !ok || !k.IsModifier() {
		return KeyNone, false
	}
	return k, true
}

package binding

import (
	"fmt"

	"github.com/soar/exilepad/internal/gamepad"
)

// BasicAttack is the implicit click-to-move binding driven by the walk stick.
var BasicAttack = Mouse(MouseLeft)

// Resolver maps logical buttons to targets and held outputs back to the
// logical buttons that produce them.
type Resolver struct {
	table     map[gamepad.Button]Target
	abilities []Target
}

// NewResolver builds a resolver from a validated binding table. When
// abilityButtons is empty, every bound button except the basic attack and
// bare modifier keys counts as an ability.
func NewResolver(table map[gamepad.Button]Target, abilityButtons []gamepad.Button) *Resolver {
	r := &Resolver{table: make(map[gamepad.Button]Target, len(table))}
	for b, t := range table {
		r.table[b] = t
	}

	explicit := make(map[gamepad.Button]bool, len(abilityButtons))
	for _, b := range abilityButtons {
		explicit[b] = true
	}

	seen := make(map[Target]bool)
	for _, b := range gamepad.Buttons() {
		t, ok := r.table[b]
		if !ok || t.IsEmpty() {
			continue
		}
		id := t.Primary()
		if len(explicit) > 0 {
			if !explicit[b] {
				continue
			}
		} else if id == BasicAttack || (id.Kind() == KindKey && id.Key().IsModifier()) {
			continue
		}
		if !seen[id] {
			seen[id] = true
			r.abilities = append(r.abilities, id)
		}
	}
	return r
}

// Resolve returns the target bound to b. The configuration loader guarantees
// every logical button has an entry, so a miss is a programming error.
func (r *Resolver) Resolve(b gamepad.Button) Target {
	t, ok := r.table[b]
	if !ok {
		panic(fmt.Sprintf("binding: no binding for logical button %q", b))
	}
	return t
}

// AbilityNameFor finds the first logical button, in canonical order, whose
// binding produces the output identity t.
func (r *Resolver) AbilityNameFor(t Target) (gamepad.Button, bool) {
	id := t.Primary()
	if id.IsEmpty() {
		return 0, false
	}
	for _, b := range gamepad.Buttons() {
		bound, ok := r.table[b]
		if ok && !bound.IsEmpty() && bound.Primary() == id {
			return b, true
		}
	}
	return 0, false
}

// AbilityIdentities lists the output identities treated as abilities.
func (r *Resolver) AbilityIdentities() []Target {
	return append([]Target(nil), r.abilities...)
}

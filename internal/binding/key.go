package binding

// Key is a keyboard key the engine can synthesize.
type Key uint8

const (
	KeyNone Key = iota
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyBackQuote
	KeyLeftBracket
	KeyRightBracket
	KeySemicolon
	KeySlash
	KeyComma
	KeyEqual
	KeyMinus
	KeyPeriod
	KeyQuote
	KeyBackslash
	KeyEscape
	KeySpace
	KeyTab
	KeyBackspace
	KeyDelete
	KeyEnter
	KeyUpArrow
	KeyDownArrow
	KeyLeftArrow
	KeyRightArrow
	KeyAlt
	KeyShift
	KeyControl

	keyCount
)

var keyNames = [keyCount]string{
	KeyNone: "",
	KeyF1:   "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5", KeyF6: "f6",
	KeyF7: "f7", KeyF8: "f8", KeyF9: "f9", KeyF10: "f10", KeyF11: "f11", KeyF12: "f12",
	KeyA: "a", KeyB: "b", KeyC: "c", KeyD: "d", KeyE: "e", KeyF: "f", KeyG: "g",
	KeyH: "h", KeyI: "i", KeyJ: "j", KeyK: "k", KeyL: "l", KeyM: "m", KeyN: "n",
	KeyO: "o", KeyP: "p", KeyQ: "q", KeyR: "r", KeyS: "s", KeyT: "t", KeyU: "u",
	KeyV: "v", KeyW: "w", KeyX: "x", KeyY: "y", KeyZ: "z",
	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",
	KeyBackQuote:    "`",
	KeyLeftBracket:  "[",
	KeyRightBracket: "]",
	KeySemicolon:    ";",
	KeySlash:        "/",
	KeyComma:        ",",
	KeyEqual:        "=",
	KeyMinus:        "-",
	KeyPeriod:       ".",
	KeyQuote:        "'",
	KeyBackslash:    "\\",
	KeyEscape:       "escape",
	KeySpace:        "space",
	KeyTab:          "tab",
	KeyBackspace:    "backspace",
	KeyDelete:       "delete",
	KeyEnter:        "enter",
	KeyUpArrow:      "uparrow",
	KeyDownArrow:    "downarrow",
	KeyLeftArrow:    "leftarrow",
	KeyRightArrow:   "rightarrow",
	KeyAlt:          "alt",
	KeyShift:        "shift",
	KeyControl:      "control",
}

// aliases accepted in configuration in addition to the canonical names.
var keyAliases = map[string]Key{
	"esc":   KeyEscape,
	"ctrl":  KeyControl,
	"up":    KeyUpArrow,
	"down":  KeyDownArrow,
	"left":  KeyLeftArrow,
	"right": KeyRightArrow,
}

var keysByName = func() map[string]Key {
	m := make(map[string]Key, int(keyCount)+len(keyAliases))
	for k := KeyF1; k < keyCount; k++ {
		m[keyNames[k]] = k
	}
	for name, k := range keyAliases {
		m[name] = k
	}
	return m
}()

// String returns the canonical configuration name of the key.
func (k Key) String() string {
	if k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// IsModifier reports whether k can act as the modifier half of a chord.
func (k Key) IsModifier() bool {
	return k == KeyAlt || k == KeyShift || k == KeyControl
}

// LookupKey resolves a lower-case key token.
func LookupKey(name string) (Key, bool) {
	k, ok := keysByName[name]
	return k, ok
}

// MouseButton is one of the three standard mouse buttons.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseLeft
	MouseMiddle
	MouseRight
)

var mouseNames = map[MouseButton]string{
	MouseLeft:   "leftclick",
	MouseMiddle: "middleclick",
	MouseRight:  "rightclick",
}

func (b MouseButton) String() string {
	if n, ok := mouseNames[b]; ok {
		return n
	}
	return "unknown"
}

// LookupMouse resolves a lower-case mouse token.
func LookupMouse(name string) (MouseButton, bool) {
	for b, n := range mouseNames {
		if n == name {
			return b, true
		}
	}
	return MouseNone, false
}

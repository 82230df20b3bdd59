package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/soar/exilepad/internal/aim"
	"github.com/soar/exilepad/internal/binding"
	"github.com/soar/exilepad/internal/gamepad"
)

// isolate keeps Load from finding settings files outside the test.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func load(t *testing.T, args ...string) (*Settings, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return Load(fs)
}

const sampleConfig = `
aimable_buttons = ["a", "Y"]

[overlay]
screen_width = 2560
screen_height = 1440
windowed_mode = true

[controller]
dead_zone_percentage = 0.25
walk_circle_radius_px = 180
controller_type = "PlayStation"
chord_settle_ms = 30

[button_mapping]
a = "AltLeftClick"
b = ""
start = "F5"

[action_distances]
a = "far"
x = "Close"
y = ""
`

func TestLoad_FromFile(t *testing.T) {
	isolate(t)
	s, err := load(t, "--config", writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Overlay.ScreenWidth != 2560 || s.Overlay.ScreenHeight != 1440 || !s.Overlay.WindowedMode {
		t.Errorf("unexpected overlay %+v", s.Overlay)
	}
	if s.Overlay.WindowTitle != "Path of Exile" {
		t.Errorf("expected default window title, got %q", s.Overlay.WindowTitle)
	}
	if s.Controller.Deadzone != 0.25 {
		t.Errorf("expected deadzone 0.25, got %v", s.Controller.Deadzone)
	}
	if want := (aim.Radii{Walk: 180, Close: 150, Mid: 300, Far: 450}); s.Controller.Radii != want {
		t.Errorf("expected radii %+v, got %+v", want, s.Controller.Radii)
	}
	if s.Controller.ControllerType != "playstation" {
		t.Errorf("expected playstation, got %q", s.Controller.ControllerType)
	}
	if s.Controller.ChordSettle != 30*time.Millisecond || s.Controller.ChordRelease != 10*time.Millisecond {
		t.Errorf("unexpected chord delays %v %v", s.Controller.ChordSettle, s.Controller.ChordRelease)
	}

	bindings := map[gamepad.Button]binding.Target{
		gamepad.ButtonA:         binding.Chord(binding.Mouse(binding.MouseLeft), binding.KeyAlt),
		gamepad.ButtonB:         binding.Empty(),
		gamepad.ButtonStart:     binding.KeyTarget(binding.KeyF5),
		gamepad.ButtonX:         binding.KeyTarget(binding.KeyE),
		gamepad.ButtonLeftStick: binding.Empty(),
	}
	for b, want := range bindings {
		if got := s.Bindings[b]; got != want {
			t.Errorf("binding %s: expected %q, got %q", b, want, got)
		}
	}
	if len(s.Bindings) != len(gamepad.Buttons()) {
		t.Errorf("expected a binding for every button, got %d", len(s.Bindings))
	}

	if !s.Aimable[gamepad.ButtonA] || !s.Aimable[gamepad.ButtonY] || s.Aimable[gamepad.ButtonX] {
		t.Errorf("unexpected aimable set %v", s.Aimable)
	}
	if s.Tiers[gamepad.ButtonA] != aim.TierFar || s.Tiers[gamepad.ButtonX] != aim.TierClose {
		t.Errorf("unexpected tiers %v", s.Tiers)
	}
	if _, ok := s.Tiers[gamepad.ButtonY]; ok {
		t.Errorf("empty tier must not be recorded")
	}
	if !strings.HasSuffix(s.File, "settings.toml") {
		t.Errorf("expected config file recorded, got %q", s.File)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	s, err := load(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.File != "" {
		t.Errorf("expected no config file, got %q", s.File)
	}
	if s.Controller.Deadzone != 0.2 || s.Controller.TriggerThreshold != 0.5 {
		t.Errorf("unexpected controller defaults %+v", s.Controller)
	}
	if got := s.Bindings[gamepad.ButtonTriggerRight]; got.Kind() != binding.KindChord {
		t.Errorf("expected default chord on trigger_right, got %q", got)
	}
	if !s.Server.Enabled || s.Server.Listen != "127.0.0.1:8080" || !s.Tray {
		t.Errorf("unexpected defaults server=%+v tray=%v", s.Server, s.Tray)
	}
	if s.Screen() != (aim.Window{Width: 1920, Height: 1080}) {
		t.Errorf("unexpected screen %+v", s.Screen())
	}
}

func TestLoad_FlagsAndEnv(t *testing.T) {
	isolate(t)
	t.Setenv("EXILEPAD_CONTROLLER_DEAD_ZONE_PERCENTAGE", "0.3")
	t.Setenv("EXILEPAD_BUTTON_MAPPING_Y", "shift+q")

	s, err := load(t, "--log-level", "debug", "--listen", ":9000", "--no-tray", "--no-server")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.LogLevel != "debug" || s.Server.Listen != ":9000" {
		t.Errorf("flags not applied: level=%q listen=%q", s.LogLevel, s.Server.Listen)
	}
	if s.Tray || s.Server.Enabled {
		t.Errorf("expected tray and server disabled")
	}
	if s.Controller.Deadzone != 0.3 {
		t.Errorf("expected env deadzone 0.3, got %v", s.Controller.Deadzone)
	}
	if got, want := s.Bindings[gamepad.ButtonY], binding.Chord(binding.KeyTarget(binding.KeyQ), binding.KeyShift); got != want {
		t.Errorf("expected %q from env, got %q", want, got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
aimable_buttons = ["a", "paddle"]

[controller]
dead_zone_percentage = 1.5

[button_mapping]
a = "hyper"
select = "q"

[action_distances]
b = "medium"
`)
	_, err := load(t, "--config", path)
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{
		"button_mapping.a",
		`unknown button "select"`,
		`unknown button "paddle"`,
		"action_distances.b",
		"dead_zone_percentage",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error:\n%v", want, err)
		}
	}
	var pe *binding.ParseError
	if !errors.As(err, &pe) || pe.Input != "hyper" {
		t.Errorf("expected a binding parse error for hyper, got %v", pe)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := load(t, "--config", filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Errorf("expected error for missing config file")
	}
}

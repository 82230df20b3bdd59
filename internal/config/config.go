package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/soar/exilepad/internal/aim"
	"github.com/soar/exilepad/internal/binding"
	"github.com/soar/exilepad/internal/gamepad"
)

const envPrefix = "EXILEPAD"

type Overlay struct {
	ScreenWidth   int
	ScreenHeight  int
	ShowCrosshair bool
	ShowButtons   bool
	WindowedMode  bool
	WindowTitle   string
}

type Controller struct {
	Deadzone         float64
	TriggerThreshold float64
	Radii            aim.Radii
	OffsetX          float64
	OffsetY          float64
	Sensitivity      float64
	ControllerType   string
	ChordSettle      time.Duration
	ChordRelease     time.Duration
}

type Server struct {
	Enabled bool
	Listen  string
}

// Settings is the validated configuration. It is not modified after Load.
type Settings struct {
	Overlay        Overlay
	Controller     Controller
	Bindings       map[gamepad.Button]binding.Target
	Aimable        map[gamepad.Button]bool
	Tiers          map[gamepad.Button]aim.Tier
	AbilityButtons []gamepad.Button
	Server         Server
	LogLevel       string
	Tray           bool
	File           string // config file that was read, empty when running on defaults
}

// Geometry returns the aim geometry described by the controller section.
func (s *Settings) Geometry() aim.Geometry {
	return aim.Geometry{
		Radii:       s.Controller.Radii,
		OffsetX:     s.Controller.OffsetX,
		OffsetY:     s.Controller.OffsetY,
		Sensitivity: s.Controller.Sensitivity,
	}
}

// Screen is the configured game resolution at the origin.
func (s *Settings) Screen() aim.Window {
	return aim.Window{
		Width:  float64(s.Overlay.ScreenWidth),
		Height: float64(s.Overlay.ScreenHeight),
	}
}

var defaultBindings = map[gamepad.Button]string{
	gamepad.ButtonA:            "q",
	gamepad.ButtonB:            "w",
	gamepad.ButtonX:            "e",
	gamepad.ButtonY:            "r",
	gamepad.ButtonBumperLeft:   "t",
	gamepad.ButtonBumperRight:  "middleclick",
	gamepad.ButtonTriggerLeft:  "rightclick",
	gamepad.ButtonTriggerRight: "alt+leftclick",
	gamepad.ButtonDpadUp:       "1",
	gamepad.ButtonDpadDown:     "2",
	gamepad.ButtonDpadLeft:     "3",
	gamepad.ButtonDpadRight:    "4",
	gamepad.ButtonStart:        "escape",
	gamepad.ButtonBack:         "tab",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("overlay.screen_width", 1920)
	v.SetDefault("overlay.screen_height", 1080)
	v.SetDefault("overlay.show_crosshair", true)
	v.SetDefault("overlay.show_buttons", true)
	v.SetDefault("overlay.windowed_mode", false)
	v.SetDefault("overlay.window_title", "Path of Exile")

	v.SetDefault("controller.dead_zone_percentage", 0.2)
	v.SetDefault("controller.trigger_threshold", 0.5)
	v.SetDefault("controller.walk_circle_radius_px", 200.0)
	v.SetDefault("controller.close_circle_radius_px", 150.0)
	v.SetDefault("controller.mid_circle_radius_px", 300.0)
	v.SetDefault("controller.far_circle_radius_px", 450.0)
	v.SetDefault("controller.character_x_offset_px", 0.0)
	v.SetDefault("controller.character_y_offset_px", 0.0)
	v.SetDefault("controller.free_mouse_sensitivity_px", 20.0)
	v.SetDefault("controller.controller_type", "")
	v.SetDefault("controller.chord_settle_ms", 20)
	v.SetDefault("controller.chord_release_ms", 10)

	for _, b := range gamepad.Buttons() {
		v.SetDefault("button_mapping."+b.String(), defaultBindings[b])
	}
	v.SetDefault("aimable_buttons", []string{"x", "y"})
	v.SetDefault("ability_buttons", []string{})

	v.SetDefault("server.enabled", true)
	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("tray.enabled", true)
}

// RegisterFlags adds the command line flags understood by Load.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to settings file (toml, yaml or json)")
	fs.String("log-level", "info", "log level: error, warn, info or debug")
	fs.String("listen", "127.0.0.1:8080", "status server listen address")
	fs.Bool("no-tray", false, "do not show the system tray icon")
	fs.Bool("no-server", false, "do not start the status server")
}

// Load reads settings from the file named by --config (or settings.toml in
// the working directory or user config directory), EXILEPAD_* environment
// variables and flags, then validates them.
func Load(fs *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"logging.level": "log-level",
		"server.listen": "listen",
	} {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	path, _ := fs.GetString("config")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "exilepad"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	s, err := decode(v)
	if err != nil {
		return nil, err
	}
	if noTray, _ := fs.GetBool("no-tray"); noTray {
		s.Tray = false
	}
	if noServer, _ := fs.GetBool("no-server"); noServer {
		s.Server.Enabled = false
	}
	return s, nil
}

func decode(v *viper.Viper) (*Settings, error) {
	var errs []error

	s := &Settings{
		Overlay: Overlay{
			ScreenWidth:   v.GetInt("overlay.screen_width"),
			ScreenHeight:  v.GetInt("overlay.screen_height"),
			ShowCrosshair: v.GetBool("overlay.show_crosshair"),
			ShowButtons:   v.GetBool("overlay.show_buttons"),
			WindowedMode:  v.GetBool("overlay.windowed_mode"),
			WindowTitle:   v.GetString("overlay.window_title"),
		},
		Controller: Controller{
			Deadzone:         v.GetFloat64("controller.dead_zone_percentage"),
			TriggerThreshold: v.GetFloat64("controller.trigger_threshold"),
			Radii: aim.Radii{
				Walk:  v.GetFloat64("controller.walk_circle_radius_px"),
				Close: v.GetFloat64("controller.close_circle_radius_px"),
				Mid:   v.GetFloat64("controller.mid_circle_radius_px"),
				Far:   v.GetFloat64("controller.far_circle_radius_px"),
			},
			OffsetX:        v.GetFloat64("controller.character_x_offset_px"),
			OffsetY:        v.GetFloat64("controller.character_y_offset_px"),
			Sensitivity:    v.GetFloat64("controller.free_mouse_sensitivity_px"),
			ControllerType: strings.ToLower(v.GetString("controller.controller_type")),
			ChordSettle:    time.Duration(v.GetInt("controller.chord_settle_ms")) * time.Millisecond,
			ChordRelease:   time.Duration(v.GetInt("controller.chord_release_ms")) * time.Millisecond,
		},
		Bindings: make(map[gamepad.Button]binding.Target),
		Aimable:  make(map[gamepad.Button]bool),
		Tiers:    make(map[gamepad.Button]aim.Tier),
		Server: Server{
			Enabled: v.GetBool("server.enabled"),
			Listen:  v.GetString("server.listen"),
		},
		LogLevel: strings.ToLower(v.GetString("logging.level")),
		Tray:     v.GetBool("tray.enabled"),
		File:     v.ConfigFileUsed(),
	}

	for name := range v.GetStringMap("button_mapping") {
		if _, ok := gamepad.ParseButton(name); !ok {
			errs = append(errs, fmt.Errorf("button_mapping: unknown button %q", name))
		}
	}
	for _, b := range gamepad.Buttons() {
		t, err := binding.Parse(v.GetString("button_mapping." + b.String()))
		if err != nil {
			errs = append(errs, fmt.Errorf("button_mapping.%s: %w", b, err))
			continue
		}
		s.Bindings[b] = t
	}

	aimable, err := parseButtons(v.GetStringSlice("aimable_buttons"))
	if err != nil {
		errs = append(errs, fmt.Errorf("aimable_buttons: %w", err))
	}
	for _, b := range aimable {
		s.Aimable[b] = true
	}

	s.AbilityButtons, err = parseButtons(v.GetStringSlice("ability_buttons"))
	if err != nil {
		errs = append(errs, fmt.Errorf("ability_buttons: %w", err))
	}

	for name, tier := range v.GetStringMapString("action_distances") {
		b, ok := gamepad.ParseButton(name)
		if !ok {
			errs = append(errs, fmt.Errorf("action_distances: unknown button %q", name))
			continue
		}
		t, err := aim.ParseTier(tier)
		if err != nil {
			errs = append(errs, fmt.Errorf("action_distances.%s: %w", name, err))
			continue
		}
		if t != aim.TierNone {
			s.Tiers[b] = t
		}
	}

	errs = append(errs, s.validate()...)
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func parseButtons(names []string) ([]gamepad.Button, error) {
	var (
		buttons []gamepad.Button
		errs    []error
	)
	for _, name := range names {
		b, ok := gamepad.ParseButton(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			errs = append(errs, fmt.Errorf("unknown button %q", name))
			continue
		}
		buttons = append(buttons, b)
	}
	return buttons, errors.Join(errs...)
}

func (s *Settings) validate() []error {
	var errs []error
	if s.Overlay.ScreenWidth <= 0 || s.Overlay.ScreenHeight <= 0 {
		errs = append(errs, fmt.Errorf("overlay: screen size %dx%d must be positive",
			s.Overlay.ScreenWidth, s.Overlay.ScreenHeight))
	}
	c := s.Controller
	if c.Deadzone < 0 || c.Deadzone >= 1 {
		errs = append(errs, fmt.Errorf("controller.dead_zone_percentage: %v must be in [0, 1)", c.Deadzone))
	}
	if c.TriggerThreshold < 0 || c.TriggerThreshold >= 1 {
		errs = append(errs, fmt.Errorf("controller.trigger_threshold: %v must be in [0, 1)", c.TriggerThreshold))
	}
	for name, r := range map[string]float64{
		"walk": c.Radii.Walk, "close": c.Radii.Close, "mid": c.Radii.Mid, "far": c.Radii.Far,
	} {
		if r < 0 {
			errs = append(errs, fmt.Errorf("controller.%s_circle_radius_px: %v must not be negative", name, r))
		}
	}
	if c.ChordSettle < 0 || c.ChordRelease < 0 {
		errs = append(errs, errors.New("controller: chord delays must not be negative"))
	}
	switch c.ControllerType {
	case "", "auto", "xbox", "playstation", "switch_pro", "generic":
	default:
		errs = append(errs, fmt.Errorf("controller.controller_type: unknown type %q", c.ControllerType))
	}
	switch s.LogLevel {
	case "error", "warn", "warning", "info", "debug":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unknown level %q", s.LogLevel))
	}
	if s.Server.Enabled && s.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen: address required when the server is enabled"))
	}
	return errs
}

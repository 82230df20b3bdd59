package window

import (
	"errors"
	"strings"

	"github.com/go-vgo/robotgo"

	"github.com/soar/exilepad/internal/aim"
)

// Source queries the foreground window.
type Source interface {
	ActiveTitle() string
	ActiveBounds() (x, y, w, h int, err error)
}

// Tracker follows the game window so cursor targets stay on the character.
// In fullscreen mode only the origin follows the window; in windowed mode
// the size does too.
type Tracker struct {
	source   Source
	title    string
	windowed bool
	fallback aim.Window

	current aim.Window
	active  bool
}

// NewTracker creates a tracker for windows whose title contains title.
// fallback is the configured screen size used while the game is not focused.
func NewTracker(source Source, title string, windowed bool, fallback aim.Window) *Tracker {
	return &Tracker{
		source:   source,
		title:    strings.ToLower(title),
		windowed: windowed,
		fallback: fallback,
		current:  fallback,
	}
}

// Update refreshes the window rectangle. Called once per frame.
func (t *Tracker) Update() {
	t.active = false
	t.current = t.fallback
	if t.title == "" || !strings.Contains(strings.ToLower(t.source.ActiveTitle()), t.title) {
		return
	}
	x, y, w, h, err := t.source.ActiveBounds()
	if err != nil {
		return
	}
	t.active = true
	t.current.X, t.current.Y = float64(x), float64(y)
	if t.windowed && w > 0 && h > 0 {
		t.current.Width, t.current.Height = float64(w), float64(h)
	}
}

func (t *Tracker) Window() aim.Window { return t.current }
func (t *Tracker) Windowed() bool     { return t.windowed }
func (t *Tracker) GameActive() bool   { return t.active }

// RobotgoSource reads the foreground window through robotgo.
type RobotgoSource struct{}

func (RobotgoSource) ActiveTitle() string {
	return robotgo.GetTitle()
}

func (RobotgoSource) ActiveBounds() (x, y, w, h int, err error) {
	pid := robotgo.GetPid()
	if pid <= 0 {
		return 0, 0, 0, 0, errors.New("no active window")
	}
	x, y, w, h = robotgo.GetBounds(pid)
	return x, y, w, h, nil
}

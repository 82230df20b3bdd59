package tray

import (
	"log/slog"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/systray"
)

// labelRefresh is how often the toggle label is checked against the pause
// state, which the status page can change too.
const labelRefresh = 250 * time.Millisecond

// ShutdownFunc is called when "Exit" is clicked
type ShutdownFunc func()

// Pauser toggles controller input synthesis.
type Pauser interface {
	SetPaused(bool)
	Paused() bool
}

// Tray manages the system tray icon and menu
type Tray struct {
	shutdownFunc ShutdownFunc
	pauser       Pauser
	statusURL    string
	logger       *slog.Logger
	once         sync.Once
	shuttingDown atomic.Bool
	menuToggle   *systray.MenuItem
	menuOpen     *systray.MenuItem
	menuExit     *systray.MenuItem

	shownPaused    bool
	setToggleTitle func(string)
}

// New creates a new Tray. statusURL may be empty when the status server is
// disabled.
func New(p Pauser, statusURL string, shutdownFn ShutdownFunc, logger *slog.Logger) *Tray {
	return &Tray{
		shutdownFunc: shutdownFn,
		pauser:       p,
		statusURL:    statusURL,
		logger:       logger,
	}
}

// Run initializes and runs the system tray (blocks until Quit())
func (t *Tray) Run(iconData []byte) {
	systray.Run(func() {
		t.onReady(iconData)
	}, func() {
		t.onExit()
	})
}

// Quit removes the tray icon.
func (t *Tray) Quit() {
	if t.shuttingDown.CompareAndSwap(false, true) {
		systray.Quit()
	}
}

func (t *Tray) onReady(iconData []byte) {
	if iconData != nil {
		systray.SetIcon(iconData)
	}
	systray.SetTitle("exilepad")
	systray.SetTooltip("exilepad - controller input for Path of Exile")

	t.shownPaused = t.pauser.Paused()
	t.menuToggle = systray.AddMenuItem(toggleLabel(t.shownPaused), "Start or pause controller input")
	t.setToggleTitle = t.menuToggle.SetTitle
	t.menuOpen = systray.AddMenuItem("Open status page", "Open the status page in a browser")
	if t.statusURL == "" {
		t.menuOpen.Disable()
	}
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	// Handle menu clicks in separate goroutines to prevent blocking
	go t.handleMenuClicks()

	t.logger.Info("System tray initialized")
}

func toggleLabel(paused bool) string {
	if paused {
		return "Start controller input"
	}
	return "Pause controller input"
}

// syncToggle updates the toggle label when the pause state changed since it
// was last shown.
func (t *Tray) syncToggle() {
	paused := t.pauser.Paused()
	if paused == t.shownPaused {
		return
	}
	t.shownPaused = paused
	t.setToggleTitle(toggleLabel(paused))
}

func (t *Tray) handleMenuClicks() {
	ticker := time.NewTicker(labelRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if t.shuttingDown.Load() {
				return
			}
			t.syncToggle()
		case <-t.menuToggle.ClickedCh:
			t.pauser.SetPaused(!t.pauser.Paused())
			t.syncToggle()
		case <-t.menuOpen.ClickedCh:
			if !t.shuttingDown.Load() {
				t.openBrowser()
			}
		case <-t.menuExit.ClickedCh:
			if t.shuttingDown.CompareAndSwap(false, true) {
				t.once.Do(t.shutdownFunc)
				systray.Quit()
				return
			}
		}
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.logger.Info("System tray exiting")
}

func (t *Tray) openBrowser() {
	if t.shuttingDown.Load() || t.statusURL == "" {
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", t.statusURL)
	case "darwin":
		cmd = exec.Command("open", t.statusURL)
	default:
		cmd = exec.Command("xdg-open", t.statusURL)
	}

	if err := cmd.Start(); err != nil {
		t.logger.Warn("Failed to open browser", "error", err)
	}
}

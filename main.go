package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/soar/exilepad/internal/aim"
	"github.com/soar/exilepad/internal/binding"
	"github.com/soar/exilepad/internal/config"
	"github.com/soar/exilepad/internal/console"
	"github.com/soar/exilepad/internal/gamepad"
	"github.com/soar/exilepad/internal/hub"
	"github.com/soar/exilepad/internal/orchestrator"
	"github.com/soar/exilepad/internal/server"
	"github.com/soar/exilepad/internal/synth"
	"github.com/soar/exilepad/internal/tray"
	"github.com/soar/exilepad/internal/window"
)

// os.Interrupt covers Ctrl+C on every platform; SIGTERM only arrives on Unix.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func main() {
	fs := pflag.NewFlagSet("exilepad", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fromConsole := console.IsRunningFromConsole()

	settings, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level, err := parseLogLevel(settings.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := setupLogger(level)
	slog.SetDefault(logger)

	if settings.File != "" {
		logger.Info("Loaded configuration", "file", settings.File)
	} else {
		logger.Info("No configuration file found, using defaults")
	}

	if err := run(settings, fromConsole, logger); err != nil {
		logger.Error("Exiting", "error", err)
		os.Exit(1)
	}
}

func run(settings *config.Settings, fromConsole bool, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	defer signal.Stop(sigCh)

	resolver := binding.NewResolver(settings.Bindings, settings.AbilityButtons)
	engine := synth.New(synth.RobotgoSink{}, logger.With("component", "synth"),
		synth.WithChordDelays(settings.Controller.ChordSettle, settings.Controller.ChordRelease),
		synth.WithAbilities(resolver.AbilityIdentities()),
	)
	store := gamepad.NewStore(settings.Controller.Deadzone, settings.Controller.TriggerThreshold)
	tracker := window.NewTracker(window.RobotgoSource{}, settings.Overlay.WindowTitle,
		settings.Overlay.WindowedMode, settings.Screen())

	controllerType := settings.Controller.ControllerType
	if controllerType == "auto" {
		controllerType = ""
	}
	orch := orchestrator.New(store, resolver, engine, tracker, synth.RobotgoSink{}, orchestrator.Options{
		Aimable:        settings.Aimable,
		Tiers:          settings.Tiers,
		Geometry:       settings.Geometry(),
		Insets:         aim.InsetsFor(runtime.GOOS),
		ControllerType: controllerType,
		ShowCrosshair:  settings.Overlay.ShowCrosshair,
		ShowButtons:    settings.Overlay.ShowButtons,
	}, logger.With("component", "orchestrator"))

	h := hub.NewHub(logger.With("component", "hub"))
	go h.Run(ctx)
	broadcaster := hub.NewBroadcaster(h, orch.Changes(), logger.With("component", "broadcaster"))
	go broadcaster.Run(ctx)

	var srv *server.Server
	var statusURL string
	serverErrCh := make(chan error, 1)
	if settings.Server.Enabled {
		srv = server.New(h, broadcaster, orch, getFrontendFS(), settings.Server.Listen, logger.With("component", "server"))
		statusURL = browserURL(settings.Server.Listen)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErrCh <- err
			}
		}()
		logger.Info("exilepad started", "status", statusURL)
	} else {
		logger.Info("exilepad started")
	}

	shutdownRequested := make(chan struct{})
	var t *tray.Tray
	if settings.Tray && runtime.GOOS == "windows" {
		t = tray.New(orch, statusURL, func() { close(shutdownRequested) }, logger.With("component", "tray"))
		go t.Run(tray.GetIcon())
	} else if fromConsole {
		logger.Info("Press Ctrl+C to exit")
	}

	consoleCtrlC := make(chan struct{})
	reregister := console.SetupConsoleHandler(consoleCtrlC)

	reader := gamepad.NewReader(logger.With("component", "reader"))
	reader.OnInit(reregister)
	readerDone := make(chan error, 1)
	go func() {
		readerDone <- reader.Run(ctx, orch.Frame)
	}()

	var runErr error
	select {
	case <-sigCh:
		logger.Info("Shutting down...")
	case <-consoleCtrlC:
		logger.Info("Shutting down...")
	case <-shutdownRequested:
		logger.Info("Shutdown requested from tray")
	case err := <-serverErrCh:
		runErr = fmt.Errorf("http server: %w", err)
	case err := <-readerDone:
		readerDone <- err
		if err != nil {
			runErr = fmt.Errorf("gamepad reader: %w", err)
		}
	}
	cancel()

	// Frames stop before the final release so nothing is pressed afterwards.
	if err := <-readerDone; err != nil && runErr == nil {
		logger.Warn("Gamepad reader stopped with error", "error", err)
	}
	orch.Shutdown()

	if t != nil {
		t.Quit()
	}

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP server shutdown error", "error", err)
		}
	}

	logger.Info("exilepad stopped")
	return runErr
}

// browserURL turns a listen address into a URL a local browser can open.
func browserURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

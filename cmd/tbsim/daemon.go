package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	singleinstance "github.com/allan-simon/go-singleinstance"

	"github.com/1broseidon/tbsim/internal/config"
	"github.com/1broseidon/tbsim/internal/content"
	"github.com/1broseidon/tbsim/internal/dock"
	"github.com/1broseidon/tbsim/internal/geometry"
	"github.com/1broseidon/tbsim/internal/hotkeys"
	"github.com/1broseidon/tbsim/internal/ipc"
	"github.com/1broseidon/tbsim/internal/loop"
	"github.com/1broseidon/tbsim/internal/platform"
	"github.com/1broseidon/tbsim/internal/poller"
	"github.com/1broseidon/tbsim/internal/runtimepath"
	"github.com/1broseidon/tbsim/internal/settings"
)

const (
	windowTitle = "Touch Bar"
	windowClass = "tbsim"
)

// daemon owns every long-lived component. Fields are only touched on the
// main loop once Run starts.
type daemon struct {
	configPath string
	cfg        *config.Config
	level      *slog.LevelVar
	logger     *slog.Logger

	loop    *loop.Loop
	backend platform.Backend
	store   *settings.Store
	content *content.Placeholder
	window  *dock.Window
	poller  *poller.Poller
	hotkeys *hotkeys.Handler
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func runDaemon(configPath string) error {
	lockPath, err := runtimepath.LockPath()
	if err != nil {
		return fmt.Errorf("failed to resolve lock path: %w", err)
	}
	lockFile, err := singleinstance.CreateLockFile(lockPath)
	if err != nil {
		return fmt.Errorf("another tbsim daemon is already running (lock %s)", lockPath)
	}
	defer lockFile.Close()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	d := &daemon{
		configPath: configPath,
		cfg:        cfg,
		level:      level,
		logger:     logger,
		loop:       loop.New(logger.With("component", "loop")),
	}
	if err := d.build(); err != nil {
		return err
	}
	defer d.backend.Close()
	defer d.store.Close()

	ctrl := &controller{
		loop:    d.loop,
		window:  d.window,
		locator: d.backend,
		store:   d.store,
		content: d.content,
		reload:  d.reload,
	}
	ipcServer, err := ipc.NewServer("", ctrl, logger.With("component", "ipc"))
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				d.loop.Post(func() {
					if err := d.reload(); err != nil {
						logger.Warn("config reload failed", "error", err)
					}
				})
			}
		}
	}()

	d.loop.Post(d.start)
	go d.backend.Run()

	logger.Info("tbsim daemon started", "docking", d.store.Docking(), "poll_interval", cfg.PollInterval)
	d.loop.Run(ctx)

	// The loop has stopped; this goroutine now owns the window.
	logger.Info("shutting down tbsim daemon")
	d.shutdown()
	return nil
}

// build connects to the window system and creates the window. Nothing is
// shown until start runs on the loop.
func (d *daemon) build() error {
	backend, err := platform.Open(d.cfg.Display)
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	d.backend = backend

	settingsPath, err := d.cfg.SettingsPath()
	if err != nil {
		backend.Close()
		return fmt.Errorf("failed to resolve settings path: %w", err)
	}
	sb, err := settings.OpenBackend(settings.BackendKind(d.cfg.Settings.Backend), settingsPath)
	if err != nil {
		d.logger.Warn("settings backend unavailable, using memory", "path", settingsPath, "error", err)
		sb = settings.NewMemoryBackend()
	}
	d.store = settings.NewStore(sb, d.logger.With("component", "settings"))
	d.store.DefaultFrame = geometry.NewRect(0, 0, d.cfg.Window.Width, d.cfg.Window.Height)

	d.content = content.NewPlaceholder(d.logger.With("component", "content"))

	shell, err := backend.NewShell(platform.ShellOptions{
		Title:        windowTitle,
		Class:        windowClass,
		Frame:        d.store.LastFrame(),
		AspectWidth:  content.Width,
		AspectHeight: content.Height,
		Margin:       content.Inset,
		AllDesktops:  d.cfg.ShowOnAllDesktops,
	}, platform.ShellEvents{
		Post:      d.loop.Post,
		OnResize:  func() { d.window.HandleResize() },
		OnClose:   func() { d.window.Close() },
		OnVisible: d.contentVisible,
	})
	if err != nil {
		d.store.Close()
		backend.Close()
		return fmt.Errorf("failed to create window: %w", err)
	}

	d.window = dock.NewWindow(shell, backend, d.store, dock.Options{
		Scheduler:     d.loop,
		FrameInterval: d.cfg.FrameInterval,
		Timing: dock.Timing{
			Move:     d.cfg.MoveDuration,
			Teleport: d.cfg.TeleportDuration,
		},
		SideBarWidth: d.cfg.SideBarWidth,
		Logger:       d.logger.With("component", "window"),
	})
	d.poller = d.newPoller()
	return nil
}

func (d *daemon) newPoller() *poller.Poller {
	return poller.New(poller.Config{
		Interval: d.cfg.PollInterval,
		Logger:   d.logger.With("component", "poller"),
	}, d.window, d.backend, d.loop)
}

func (d *daemon) contentVisible(visible bool) {
	if !visible {
		d.content.Unmount()
		return
	}
	if err := d.content.Mount(); err != nil {
		d.logger.Warn("failed to mount content", "error", err)
	}
}

// start runs on the loop: place the window, mount content and begin polling.
func (d *daemon) start() {
	d.window.Setup()
	d.contentVisible(true)
	d.poller.Start()

	h, err := hotkeys.NewHandler(d.backend, d.loop.Post, d.logger.With("component", "hotkeys"))
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			d.logger.Info("global hotkeys unavailable on this platform")
		} else {
			d.logger.Warn("failed to set up hotkeys", "error", err)
		}
		return
	}
	d.hotkeys = h
	d.registerHotkeys()
}

func (d *daemon) commands() map[string]func() {
	return map[string]func(){
		"dock_top":    d.window.DockTop,
		"dock_bottom": d.window.DockBottom,
		"undock":      d.window.Undock,
		"toggle":      d.window.Toggle,
		"close":       d.window.Close,
	}
}

func (d *daemon) registerHotkeys() {
	if d.hotkeys == nil {
		return
	}
	if err := d.hotkeys.RegisterAll(d.cfg.Hotkeys.Bindings(), d.commands()); err != nil {
		d.logger.Warn("invalid hotkey configuration", "error", err)
	}
}

// reload re-reads the config file and applies what can change at runtime:
// log level, poll interval and hotkeys. Window size, animation timing and
// the settings backend need a restart.
func (d *daemon) reload() error {
	cfg, err := loadConfig(d.configPath)
	if err != nil {
		return err
	}
	old := d.cfg
	d.cfg = cfg
	d.level.Set(cfg.SlogLevel())

	if cfg.PollInterval != old.PollInterval {
		running := d.poller.Running()
		d.poller.Stop()
		d.poller = d.newPoller()
		if running {
			d.poller.Start()
		}
	}
	if d.hotkeys != nil {
		d.hotkeys.UnregisterAll()
		d.registerHotkeys()
	}
	if cfg.FrameInterval != old.FrameInterval || cfg.MoveDuration != old.MoveDuration ||
		cfg.TeleportDuration != old.TeleportDuration || cfg.SideBarWidth != old.SideBarWidth ||
		cfg.Window != old.Window || cfg.Settings != old.Settings || cfg.Display != old.Display {
		d.logger.Warn("some config changes take effect after a daemon restart")
	}
	d.logger.Info("config reloaded", "poll_interval", cfg.PollInterval, "log_level", cfg.LogLevel)
	return nil
}

func (d *daemon) shutdown() {
	d.poller.Stop()
	if d.hotkeys != nil {
		d.hotkeys.UnregisterAll()
	}
	d.window.Detach()
	d.content.Unmount()
	d.backend.Stop()
}

func mustRun(err error) {
	if err != nil {
		log.Fatalf("tbsim: %v", err)
	}
}

package engine

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/tinta/engine/assets"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/engine/gamepad"
	"github.com/spaghettifunk/tinta/engine/platform"
	"github.com/spaghettifunk/tinta/engine/renderer/vulkan"
)

// Run opens a window with a Vulkan backend and runs the game built by factory
// until it exits. Any failure is fatal. Run must be called from the main
// goroutine.
func Run(cfg *ApplicationConfig, factory Factory) {
	if err := cfg.Validate(); err != nil {
		core.LogFatal("%s", err)
	}
	if err := core.SetLogLevel(cfg.LogLevel); err != nil {
		core.LogWarn("log level: %s", err)
	}

	window, err := platform.NewWindow(platform.WindowConfig{
		Title:  cfg.Name,
		Width:  cfg.Width,
		Height: cfg.Height,
	})
	if err != nil {
		core.LogFatal("%s", err)
	}
	defer window.Shutdown()

	width, height := window.FramebufferSize()
	backend, err := vulkan.New(window, width, height, vulkan.Config{
		Name:       cfg.Name,
		ShaderDir:  cfg.ShaderDir,
		VSync:      cfg.VSync,
		Validation: cfg.Validation,
	})
	if err != nil {
		core.LogFatal("%s", &core.BackendError{Op: "initialize vulkan", Err: err})
	}
	defer backend.Close()

	opts := []Option{WithGamepads(gamepad.NewGLFWDevice())}
	if cfg.AssetDir != "" {
		m, err := assets.NewManager(cfg.AssetDir)
		if err != nil {
			core.LogWarn("assets: %s", err)
		} else {
			opts = append(opts, WithAssets(m))
		}
	}

	e, err := New(cfg, window, backend, opts...)
	if err != nil {
		core.LogFatal("%s", err)
	}
	defer e.Shutdown()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupts)
	go func() {
		for range interrupts {
			e.Proxy().Send(core.CloseRequested{})
		}
	}()

	if err := e.Run(factory); err != nil {
		core.LogFatal("%s", err)
	}
}

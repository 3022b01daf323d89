package engine

import (
	"github.com/spaghettifunk/tinta/engine/assets"
	"github.com/spaghettifunk/tinta/engine/gamepad"
)

// Option configures optional collaborators of an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	gamepads gamepad.Device
	assets   *assets.Manager
}

// WithGamepads sets the device polled when the game enables gamepads.
func WithGamepads(dev gamepad.Device) Option {
	return func(o *engineOptions) {
		o.gamepads = dev
	}
}

// WithAssets makes the asset directory available to the game and watches it.
func WithAssets(m *assets.Manager) Option {
	return func(o *engineOptions) {
		o.assets = m
	}
}

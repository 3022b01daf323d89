package platform

import (
	"github.com/spaghettifunk/tinta/engine/core"
)

// NativeSource is a window system that can be pumped for events.
type NativeSource interface {
	// PollEvents processes pending window system events and returns them in
	// the order they were produced.
	PollEvents() []core.Event
}

// EventLoop merges native and injected events into ticks.
type EventLoop struct {
	source NativeSource
	proxy  *Proxy
}

func NewEventLoop(source NativeSource, wake func()) *EventLoop {
	return &EventLoop{
		source: source,
		proxy:  NewProxy(wake),
	}
}

func (l *EventLoop) Proxy() *Proxy {
	return l.proxy
}

// NextTick returns one tick: native events, then injected events, then
// MainEventsCleared. RedrawRequested is not part of the tick; the engine adds
// it when a redraw was requested.
func (l *EventLoop) NextTick() []core.Event {
	native := l.source.PollEvents()
	injected := l.proxy.Drain()
	tick := make([]core.Event, 0, len(native)+len(injected)+1)
	tick = append(tick, native...)
	tick = append(tick, injected...)
	return append(tick, core.MainEventsCleared{})
}

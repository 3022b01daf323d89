package gamepad

import (
	"context"
	"time"

	"github.com/spaghettifunk/tinta/engine/core"
)

const DefaultPollInterval = 22 * time.Millisecond

// Poller forwards the events of a Device to an EventSender on its own
// goroutine. Each event travels as a core.UserEvent with an Event payload.
type Poller struct {
	device   Device
	sink     core.EventSender
	interval time.Duration
}

func NewPoller(device Device, sink core.EventSender, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		device:   device,
		sink:     sink,
		interval: interval,
	}
}

// Start spawns the polling goroutine. It runs until ctx is done; the returned
// channel is closed once it has stopped.
func (p *Poller) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, ev := range p.device.Poll() {
					p.sink.Send(core.UserEvent{Payload: ev})
				}
			}
		}
	}()
	core.LogDebug("gamepad poller started (every %s)", p.interval)
	return done
}

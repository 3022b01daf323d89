package platform

import (
	"sync"

	"github.com/spaghettifunk/tinta/engine/containers"
	"github.com/spaghettifunk/tinta/engine/core"
)

// Proxy queues events from other goroutines for the loop. The queue is
// unbounded so a sender never waits for the loop to catch up.
type Proxy struct {
	mu    sync.Mutex
	queue *containers.RingQueue[core.Event]
	wake  func()
}

func NewProxy(wake func()) *Proxy {
	return &Proxy{
		queue: containers.NewRingQueue[core.Event](64),
		wake:  wake,
	}
}

// Send is safe for concurrent use.
func (p *Proxy) Send(e core.Event) {
	p.mu.Lock()
	p.queue.Enqueue(e)
	p.mu.Unlock()
	if p.wake != nil {
		p.wake()
	}
}

// Drain removes and returns everything queued so far, oldest first.
func (p *Proxy) Drain() []core.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Drain()
}

func (p *Proxy) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

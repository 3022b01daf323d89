package vulkan

import "github.com/spaghettifunk/tinta/engine/renderer"

type retired struct {
	resource renderer.Resource
	frame    uint64
}

// retireQueue destroys resources once the last frame that may reference them
// has completed on the GPU.
type retireQueue struct {
	entries []retired
}

// Push stamps r with frame, the newest frame that could have recorded it.
func (q *retireQueue) Push(r renderer.Resource, frame uint64) {
	q.entries = append(q.entries, retired{resource: r, frame: frame})
}

// Collect destroys every entry stamped at or before completed, in retire
// order, and returns how many went.
func (q *retireQueue) Collect(completed uint64) int {
	kept := q.entries[:0]
	n := 0
	for _, e := range q.entries {
		if e.frame <= completed {
			e.resource.Destroy()
			n++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(q.entries); i++ {
		q.entries[i] = retired{}
	}
	q.entries = kept
	return n
}

// Drain destroys everything regardless of age.
func (q *retireQueue) Drain() {
	for _, e := range q.entries {
		e.resource.Destroy()
	}
	q.entries = nil
}

func (q *retireQueue) Len() int {
	return len(q.entries)
}

// Retire destroys r once every frame in flight that could reference it has
// completed.
func (b *Backend) Retire(r renderer.Resource) {
	if r == nil {
		return
	}
	_ = lockPool.SafeCall(RetireManagement, func() error {
		b.retired.Push(r, b.context.FrameNumber)
		return nil
	})
}

func (b *Backend) collectRetired(completed uint64) {
	_ = lockPool.SafeCall(RetireManagement, func() error {
		b.retired.Collect(completed)
		return nil
	})
}

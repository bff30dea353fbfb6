// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Processor transforms interleaved float samples in place.
//
// Process runs on the device thread. It must return quickly, must not block
// and must not call Device, Sound, Music or Stream methods.
type Processor interface {
	Process(samples []float32, frames int)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(samples []float32, frames int)

func (f ProcessorFunc) Process(samples []float32, frames int) { f(samples, frames) }

// ProcessorID identifies one attachment of a Processor.
type ProcessorID uint64

type registration struct {
	id   ProcessorID
	proc Processor
}

// chain is a copy-on-write list of processors. The device thread only loads
// the current list.
type chain struct {
	mu   sync.Mutex
	list atomic.Pointer[[]registration]
}

func (c *chain) attach(id ProcessorID, p Processor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var next []registration
	if cur := c.list.Load(); cur != nil {
		next = slices.Clone(*cur)
	}
	next = append(next, registration{id: id, proc: p})
	c.list.Store(&next)
}

// detach removes id and reports whether it was attached.
func (c *chain) detach(id ProcessorID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.list.Load()
	if cur == nil {
		return false
	}

	i := slices.IndexFunc(*cur, func(r registration) bool { return r.id == id })
	if i < 0 {
		return false
	}

	next := slices.Delete(slices.Clone(*cur), i, i+1)
	c.list.Store(&next)
	return true
}

func (c *chain) len() int {
	if cur := c.list.Load(); cur != nil {
		return len(*cur)
	}
	return 0
}

func (c *chain) run(samples []float32, frames int) {
	cur := c.list.Load()
	if cur == nil {
		return
	}
	for _, r := range *cur {
		r.proc.Process(samples, frames)
	}
}

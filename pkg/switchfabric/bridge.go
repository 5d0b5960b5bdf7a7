package switchfabric

import (
	"sync"
	"time"

	"github.com/cirrusnet/intcode/pkg/port"
)

// Bridge is the Port a single machine in the network reads from and
// writes to. Its input FIFO is seeded with the machine's own address at
// construction; reads never block indefinitely and fail only on
// cancellation — an
// empty FIFO yields -1 after one poll interval, which the Intcode
// program treats as "no packet this tick" (spec.md §4.5). Writes
// accumulate into a three-word framing buffer and are routed through
// the owning Switch on the third word.
type Bridge struct {
	sw   *Switch
	addr int64

	mu       sync.Mutex
	fifo     []int64
	starving bool
	outBuf   []int64
}

func newBridge(sw *Switch, addr int64) *Bridge {
	b := &Bridge{sw: sw, addr: addr}
	b.fifo = append(b.fifo, addr)
	return b
}

// Read implements port.Input. A non-empty FIFO yields its oldest word
// immediately; an empty FIFO marks the bridge starving, sleeps for one
// poll interval, and returns -1 — not an error.
func (b *Bridge) Read(cancel *port.CancelToken) (int64, error) {
	if cancel.Cancelled() {
		return 0, port.ErrCancelled
	}

	b.mu.Lock()
	if len(b.fifo) > 0 {
		v := b.fifo[0]
		b.fifo = b.fifo[1:]
		b.starving = false
		b.mu.Unlock()
		return v, nil
	}
	b.starving = true
	b.mu.Unlock()

	select {
	case <-time.After(b.sw.pollInterval):
	case <-cancel.Done():
		return 0, port.ErrCancelled
	}
	return -1, nil
}

// Write implements port.Output. Every third write is interpreted as a
// complete (dest, x, y) frame and handed to the Switch for routing.
func (b *Bridge) Write(value int64, cancel *port.CancelToken) error {
	if cancel.Cancelled() {
		return port.ErrCancelled
	}

	b.mu.Lock()
	b.outBuf = append(b.outBuf, value)
	var frame []int64
	if len(b.outBuf) == 3 {
		frame = append([]int64(nil), b.outBuf...)
		b.outBuf = b.outBuf[:0]
	}
	b.mu.Unlock()

	if frame != nil {
		b.sw.deliver(b.addr, frame[0], frame[1], frame[2])
	}
	return nil
}

// enqueue appends x, y to the FIFO and clears the starving flag — called
// by the owning Switch when routing a packet to this bridge.
func (b *Bridge) enqueue(x, y int64) {
	b.mu.Lock()
	b.fifo = append(b.fifo, x, y)
	b.starving = false
	b.mu.Unlock()
}

// starvingAndEmpty reports whether this bridge's last read found the
// FIFO empty and it has stayed empty since.
func (b *Bridge) starvingAndEmpty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.starving && len(b.fifo) == 0
}

// Addr returns the machine address this bridge is bound to.
func (b *Bridge) Addr() int64 {
	return b.addr
}

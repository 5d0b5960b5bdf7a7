// Package switchfabric implements the Category Six peer-to-peer network
// of spec.md §4.5: a Switch routes three-word packets between N Bridge
// ports (one per machine address) and a reserved NAT address, and runs
// the NAT's idle-detection protocol. Grounded on the teacher's
// internal/meshage (internal/meshage/client.go, message.go): a Node that
// owns per-peer connection state behind a map+mutex and pumps messages
// through a central router, here specialized from a TCP mesh of
// physical hosts to an in-process mesh of Bridge ports (Design Note
// "cyclic ownership": the switch owns every bridge; each machine borrows
// a reference to exactly one).
package switchfabric

import (
	"errors"
	"sync"
	"time"

	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/vmlog"
)

// defaultPollInterval is how long a Bridge sleeps before returning -1 on
// an empty read, and how often the NAT worker re-checks idleness.
const defaultPollInterval = 5 * time.Millisecond

// ErrNatIdleWithoutPacket is returned by the NAT worker if the network
// goes idle before the NAT has ever received a packet — a malformed
// input per spec.md §7.
var ErrNatIdleWithoutPacket = errors.New("switchfabric: NAT idle with empty inbox")

// Switch owns a Bridge per participating machine address plus the
// reserved NAT pseudo-address's inbox. Its own mutex protects only the
// collective "is the whole network idle" view and NAT delivery; each
// Bridge protects its own FIFO and starving flag independently (spec.md
// §4.5, §5).
type Switch struct {
	natAddr      int64
	pollInterval time.Duration

	mu       sync.Mutex
	bridges  map[int64]*Bridge
	natHas   bool
	natX     int64
	natY     int64
}

// Option configures a Switch at construction.
type Option func(*Switch)

// WithPollInterval overrides the Bridge/NAT poll granularity.
func WithPollInterval(d time.Duration) Option {
	return func(s *Switch) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// New constructs a Switch with a Bridge for every address in addresses.
// natAddr is the reserved address observed by the idle-detection worker
// and must not appear in addresses.
func New(natAddr int64, addresses []int64, opts ...Option) *Switch {
	s := &Switch{
		natAddr:      natAddr,
		pollInterval: defaultPollInterval,
		bridges:      make(map[int64]*Bridge, len(addresses)),
	}
	for _, opt := range opts {
		opt(s)
	}
	for _, addr := range addresses {
		s.bridges[addr] = newBridge(s, addr)
	}
	return s
}

// BridgeFor returns the Bridge bound to addr, constructing one on first
// use (spec.md §6's Switch::bridge_for).
func (s *Switch) BridgeFor(addr int64) *Bridge {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bridges[addr]
	if !ok {
		b = newBridge(s, addr)
		s.bridges[addr] = b
	}
	return b
}

// deliver routes a completed (dest, x, y) frame from sender. The NAT
// address consumes it into the inbox; any other address is appended to
// that bridge's input FIFO. A destination with no registered bridge is a
// caller error (malformed network topology) and is logged, not panicked.
func (s *Switch) deliver(sender, dest, x, y int64) {
	vmlog.Info("message [%03d] -> [%03d]: x=%d y=%d", sender, dest, x, y)

	if dest == s.natAddr {
		s.mu.Lock()
		s.natX, s.natY, s.natHas = x, y, true
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	b, ok := s.bridges[dest]
	s.mu.Unlock()
	if !ok {
		vmlog.Warn("message to unknown address [%03d] dropped", dest)
		return
	}
	b.enqueue(x, y)
}

// isIdle reports whether every bridge is starving (its last read found
// an empty FIFO) and every FIFO remains empty, observed as a single
// snapshot.
func (s *Switch) isIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bridges {
		if !b.starvingAndEmpty() {
			return false
		}
	}
	return true
}

// RunNATUntilRepeat runs the NAT idle-detection worker of spec.md §4.5:
// it waits for the network to go idle, delivers the NAT's most recently
// received packet to address 0, and repeats. It stops and returns (x, y)
// the first time a y value repeats across two consecutive idle-triggered
// deliveries — checked, per the Open Question in spec.md §9, *before*
// the repeated send would occur, matching the original puzzle's exact
// ordering.
func (s *Switch) RunNATUntilRepeat(cancel *port.CancelToken) (int64, int64, error) {
	var lastY int64
	haveLast := false

	for {
		if cancel.Cancelled() {
			return 0, 0, port.ErrCancelled
		}

		if s.isIdle() {
			s.mu.Lock()
			x, y, ok := s.natX, s.natY, s.natHas
			s.mu.Unlock()

			if !ok {
				return 0, 0, ErrNatIdleWithoutPacket
			}

			if haveLast && y == lastY {
				vmlog.Info("NAT: idle repeat detected, y=%d", y)
				return x, y, nil
			}

			zero := s.BridgeFor(0)
			zero.enqueue(x, y)
			vmlog.Info("NAT: network idle, delivering x=%d y=%d to [000]", x, y)
			lastY = y
			haveLast = true
		}

		select {
		case <-time.After(s.pollInterval):
		case <-cancel.Done():
			return 0, 0, port.ErrCancelled
		}
	}
}

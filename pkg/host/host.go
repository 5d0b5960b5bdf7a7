// Package host implements the Machine host of spec.md §4.4: it bundles
// a VM with its cancellation token and drives its run loop on a
// dedicated goroutine (the spec's "OS-level thread"), so a driver can
// launch several Machines, later cancel and join them, without each
// Machine's Run call blocking the caller. Grounded on the teacher's
// internal/qemu process lifecycle (Launch/Kill, a goroutine pumping
// output, a WaitGroup-style join) generalized from an external process
// to an in-process Machine.
package host

import (
	"sync"

	"github.com/cirrusnet/intcode/pkg/vm"
	"github.com/cirrusnet/intcode/pkg/vmlog"
)

// Host owns one Machine's lifecycle: starting its run loop on a
// goroutine, requesting cancellation, and joining on completion.
type Host struct {
	m    *vm.Machine
	name string

	once   sync.Once
	done   chan struct{}
	result vm.RunResult
	err    error
}

// New wraps m in a Host. name is used only for log messages.
func New(m *vm.Machine, name string) *Host {
	return &Host{m: m, name: name, done: make(chan struct{})}
}

// Machine returns the underlying VM, e.g. for pre-run memory patching.
func (h *Host) Machine() *vm.Machine {
	return h.m
}

// Start launches the Machine's run loop on a new goroutine. Calling
// Start more than once has no additional effect; the first call wins.
func (h *Host) Start() {
	h.once.Do(func() {
		go func() {
			vmlog.Debug("host %s: starting", h.name)
			h.result, h.err = h.m.Run()
			if h.err != nil {
				vmlog.Error("host %s: aborted: %v", h.name, h.err)
			} else {
				vmlog.Debug("host %s: %s", h.name, h.result)
			}
			close(h.done)
		}()
	})
}

// RunUntilTerminate starts the Machine (if not already started) and
// blocks until it halts naturally or is cancelled from another
// goroutine, returning the same (RunResult, error) pair vm.Run would.
func (h *Host) RunUntilTerminate() (vm.RunResult, error) {
	h.Start()
	<-h.done
	return h.result, h.err
}

// RequestCancel sets the Machine's cancellation token; any port call the
// Machine is blocked in unblocks within one polling interval and the run
// loop exits, reporting ResultCancelled.
func (h *Host) RequestCancel() {
	h.m.RequestCancel()
}

// Wait blocks until the Host's goroutine has finished, without starting
// it if it hasn't already (use Start or RunUntilTerminate for that). It
// is the "join the thread" step drivers perform after RequestCancel.
func (h *Host) Wait() (vm.RunResult, error) {
	<-h.done
	return h.result, h.err
}

// Done returns a channel closed once the Machine's run loop has
// finished.
func (h *Host) Done() <-chan struct{} {
	return h.done
}

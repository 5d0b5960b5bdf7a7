package port

import "sync"

// TapePort is an Output sink that never blocks: every written word is
// appended to an unbounded tape, readable by the driver after the
// Machine halts. Grounded on original_source/mysolution/machine.py's
// PrinterPort, minus the printing (spec.md §4.3(2)).
type TapePort struct {
	mu   sync.Mutex
	tape []int64
}

// NewTapePort returns an empty TapePort.
func NewTapePort() *TapePort {
	return &TapePort{}
}

// Write appends value to the tape. Never fails except on cancellation.
func (t *TapePort) Write(value int64, cancel *CancelToken) error {
	if cancel.Cancelled() {
		return ErrCancelled
	}
	t.mu.Lock()
	t.tape = append(t.tape, value)
	t.mu.Unlock()
	return nil
}

// Tape returns a copy of everything written so far, in write order.
func (t *TapePort) Tape() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int64, len(t.tape))
	copy(out, t.tape)
	return out
}

// Last returns the most recently written word and whether the tape is
// non-empty.
func (t *TapePort) Last() (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.tape) == 0 {
		return 0, false
	}
	return t.tape[len(t.tape)-1], true
}

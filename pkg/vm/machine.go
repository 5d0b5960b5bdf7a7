// Package vm implements the Intcode fetch-decode-execute loop: the VM
// core of spec.md §4.2. A Machine owns its memory, program counter,
// relative base, and a single cancellation token shared by every
// blocking port call it makes; it performs no I/O beyond those port
// calls and no logging of its own (the host layer, pkg/host, logs
// lifecycle events).
package vm

import (
	"errors"
	"fmt"

	"github.com/cirrusnet/intcode/pkg/decode"
	"github.com/cirrusnet/intcode/pkg/memory"
	"github.com/cirrusnet/intcode/pkg/port"
)

// StepOutcome reports what a single Step call did.
type StepOutcome int

const (
	Continued StepOutcome = iota
	Halted
	Cancelled
)

func (o StepOutcome) String() string {
	switch o {
	case Continued:
		return "Continued"
	case Halted:
		return "Halted"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// RunResult reports why Run stopped.
type RunResult int

const (
	ResultHalted RunResult = iota
	ResultCancelled
)

func (r RunResult) String() string {
	if r == ResultHalted {
		return "Halted"
	}
	return "Cancelled"
}

// Machine is one Intcode VM instance: memory, program counter, relative
// base, and the two ports it reads/writes through.
type Machine struct {
	mem     *memory.Memory
	pc      int64
	relBase int64
	halted  bool

	in     port.Input
	out    port.Output
	cancel *port.CancelToken
}

// New constructs a Machine from image, bound to in and out. The image is
// copied; pc and relative_base start at 0.
func New(image []int64, in port.Input, out port.Output) *Machine {
	return &Machine{
		mem:    memory.New(image),
		in:     in,
		out:    out,
		cancel: port.NewCancelToken(),
	}
}

// RequestCancel sets the Machine's cancellation token. Any blocking port
// call already in flight, or made afterward, returns promptly with
// port.ErrCancelled; the run loop exits at the next opcode 3 or 4 (other
// instructions do not consult the token).
func (m *Machine) RequestCancel() {
	m.cancel.Cancel()
}

// Cancelled reports whether RequestCancel has been called.
func (m *Machine) Cancelled() bool {
	return m.cancel.Cancelled()
}

// CancelToken returns the Machine's own cancellation token, so a driver
// that talks to the same ports from outside the VM (e.g. a robot control
// loop sharing a QueuePort pair with the Machine) can pass it into its
// own blocking port calls and be woken by the same RequestCancel call
// that stops the Machine.
func (m *Machine) CancelToken() *port.CancelToken {
	return m.cancel
}

// Halted reports whether the Machine has executed opcode 99.
func (m *Machine) Halted() bool {
	return m.halted
}

// PC returns the current program counter.
func (m *Machine) PC() int64 {
	return m.pc
}

// RelativeBase returns the current relative base.
func (m *Machine) RelativeBase() int64 {
	return m.relBase
}

// MemoryRead is a sanctioned poke for drivers that patch the loaded
// image before running (spec.md's "insert coin" pattern: writing 2 to
// address 0 before Run).
func (m *Machine) MemoryRead(addr int64) int64 {
	return m.mem.Read(addr)
}

// MemoryWrite is the write-side counterpart of MemoryRead.
func (m *Machine) MemoryWrite(addr int64, value int64) {
	m.mem.Write(addr, value)
}

// Run repeats Step until the Machine halts or is cancelled, or a Fault
// aborts it.
func (m *Machine) Run() (RunResult, error) {
	for {
		outcome, err := m.Step()
		if err != nil {
			return ResultHalted, err
		}
		switch outcome {
		case Halted:
			return ResultHalted, nil
		case Cancelled:
			return ResultCancelled, nil
		case Continued:
			continue
		}
	}
}

// Step executes exactly one instruction.
func (m *Machine) Step() (StepOutcome, error) {
	if m.halted {
		return Halted, nil
	}

	instr := m.mem.Read(m.pc)
	op := decode.Opcode(instr)

	switch op {
	case 1:
		return m.arith(instr, func(a, b int64) int64 { return a + b })
	case 2:
		return m.arith(instr, func(a, b int64) int64 { return a * b })
	case 3:
		return m.in3(instr)
	case 4:
		return m.out4(instr)
	case 5:
		return m.jump(instr, func(c int64) bool { return c != 0 })
	case 6:
		return m.jump(instr, func(c int64) bool { return c == 0 })
	case 7:
		return m.arith(instr, func(a, b int64) int64 { return boolWord(a < b) })
	case 8:
		return m.arith(instr, func(a, b int64) int64 { return boolWord(a == b) })
	case 9:
		return m.adjustBase(instr)
	case 99:
		m.halted = true
		return Halted, nil
	default:
		return 0, fault(BadOpcode, m.pc, fmt.Sprintf("instruction word %d", instr))
	}
}

func boolWord(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// param reads the raw operand word at m.pc+1+index and its decoded mode.
func (m *Machine) param(instr int64, index int) (raw int64, mode decode.Mode, err error) {
	mode, derr := decode.ParamMode(instr, index)
	if derr != nil {
		return 0, 0, fault(BadMode, m.pc, derr.Error())
	}
	raw = m.mem.Read(m.pc + 1 + int64(index))
	return raw, mode, nil
}

// load reads the value a parameter refers to.
func (m *Machine) load(raw int64, mode decode.Mode) (int64, error) {
	switch mode {
	case decode.Immediate:
		return raw, nil
	case decode.Position:
		if raw < 0 {
			return 0, fault(InvalidAddress, m.pc, "negative position address")
		}
		return m.mem.Read(raw), nil
	case decode.Relative:
		addr := m.relBase + raw
		if addr < 0 {
			return 0, fault(InvalidAddress, m.pc, "negative relative address")
		}
		return m.mem.Read(addr), nil
	default:
		return 0, fault(BadMode, m.pc, "")
	}
}

// store writes a value to the address a write-parameter refers to.
func (m *Machine) store(raw int64, mode decode.Mode, value int64) error {
	switch mode {
	case decode.Immediate:
		return fault(InvalidWrite, m.pc, "immediate mode on write operand")
	case decode.Position:
		if raw < 0 {
			return fault(InvalidAddress, m.pc, "negative position address")
		}
		m.mem.Write(raw, value)
		return nil
	case decode.Relative:
		addr := m.relBase + raw
		if addr < 0 {
			return fault(InvalidAddress, m.pc, "negative relative address")
		}
		m.mem.Write(addr, value)
		return nil
	default:
		return fault(BadMode, m.pc, "")
	}
}

func (m *Machine) arith(instr int64, op func(a, b int64) int64) (StepOutcome, error) {
	aRaw, aMode, err := m.param(instr, 0)
	if err != nil {
		return 0, err
	}
	bRaw, bMode, err := m.param(instr, 1)
	if err != nil {
		return 0, err
	}
	dRaw, dMode, err := m.param(instr, 2)
	if err != nil {
		return 0, err
	}
	a, err := m.load(aRaw, aMode)
	if err != nil {
		return 0, err
	}
	b, err := m.load(bRaw, bMode)
	if err != nil {
		return 0, err
	}
	if err := m.store(dRaw, dMode, op(a, b)); err != nil {
		return 0, err
	}
	m.pc += 4
	return Continued, nil
}

func (m *Machine) in3(instr int64) (StepOutcome, error) {
	if m.cancel.Cancelled() {
		return Cancelled, nil
	}
	dRaw, dMode, err := m.param(instr, 0)
	if err != nil {
		return 0, err
	}
	v, err := m.in.Read(m.cancel)
	if err != nil {
		if errors.Is(err, port.ErrCancelled) {
			return Cancelled, nil
		}
		if errors.Is(err, port.ErrEndOfInput) {
			return 0, fault(EndOfInput, m.pc, "")
		}
		if errors.Is(err, port.ErrUnavailable) {
			return 0, fault(PortUnavailable, m.pc, "")
		}
		return 0, fault(EndOfInput, m.pc, err.Error())
	}
	if err := m.store(dRaw, dMode, v); err != nil {
		return 0, err
	}
	m.pc += 2
	return Continued, nil
}

func (m *Machine) out4(instr int64) (StepOutcome, error) {
	if m.cancel.Cancelled() {
		return Cancelled, nil
	}
	sRaw, sMode, err := m.param(instr, 0)
	if err != nil {
		return 0, err
	}
	v, err := m.load(sRaw, sMode)
	if err != nil {
		return 0, err
	}
	if err := m.out.Write(v, m.cancel); err != nil {
		if errors.Is(err, port.ErrCancelled) {
			return Cancelled, nil
		}
		if errors.Is(err, port.ErrUnavailable) {
			return 0, fault(PortUnavailable, m.pc, "")
		}
		return 0, fault(PortUnavailable, m.pc, err.Error())
	}
	m.pc += 2
	return Continued, nil
}

func (m *Machine) jump(instr int64, test func(c int64) bool) (StepOutcome, error) {
	cRaw, cMode, err := m.param(instr, 0)
	if err != nil {
		return 0, err
	}
	tRaw, tMode, err := m.param(instr, 1)
	if err != nil {
		return 0, err
	}
	c, err := m.load(cRaw, cMode)
	if err != nil {
		return 0, err
	}
	if test(c) {
		target, err := m.load(tRaw, tMode)
		if err != nil {
			return 0, err
		}
		m.pc = target
	} else {
		m.pc += 3
	}
	return Continued, nil
}

func (m *Machine) adjustBase(instr int64) (StepOutcome, error) {
	xRaw, xMode, err := m.param(instr, 0)
	if err != nil {
		return 0, err
	}
	x, err := m.load(xRaw, xMode)
	if err != nil {
		return 0, err
	}
	m.relBase += x
	m.pc += 2
	return Continued, nil
}

// Package decode splits an Intcode instruction word into its opcode and
// per-parameter addressing modes, per spec.md §4.1. Re-expressed as a
// tagged Mode enum and table lookup rather than the original Python
// solution's dynamic-dispatch-by-method-name (Design Note 1): arity is a
// property of the opcode, decided by pkg/vm, not discovered here.
package decode

import "fmt"

// Mode is a parameter addressing mode.
type Mode int

const (
	Position  Mode = 0
	Immediate Mode = 1
	Relative  Mode = 2
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Opcode extracts the two-digit opcode from an instruction word
// (instr mod 100).
func Opcode(instr int64) int64 {
	return instr % 100
}

// ParamMode extracts the mode of the parameter at the given zero-based
// index (0 = first operand after the opcode) from the instruction word's
// decimal digits above the opcode. Unreferenced higher digits default to
// Position, per spec.md §4.1.
func ParamMode(instr int64, index int) (Mode, error) {
	digits := instr / 100
	for i := 0; i < index; i++ {
		digits /= 10
	}
	raw := digits % 10
	switch Mode(raw) {
	case Position, Immediate, Relative:
		return Mode(raw), nil
	default:
		return 0, fmt.Errorf("decode: bad parameter mode %d", raw)
	}
}

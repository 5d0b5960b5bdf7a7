package vm

import (
	"errors"
	"testing"

	"github.com/cirrusnet/intcode/pkg/port"
)

func runToHalt(t *testing.T, image []int64, in port.Input, out *port.TapePort) *Machine {
	t.Helper()
	m := New(image, in, out)
	result, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != ResultHalted {
		t.Fatalf("Run result = %v, want Halted", result)
	}
	return m
}

func TestQuineEmitsItself(t *testing.T) {
	image := []int64{109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99}
	out := port.NewTapePort()
	runToHalt(t, image, port.NewScriptedPort(nil), out)

	tape := out.Tape()
	if len(tape) != len(image) {
		t.Fatalf("tape length = %d, want %d", len(tape), len(image))
	}
	for i, v := range tape {
		if v != image[i] {
			t.Errorf("tape[%d] = %d, want %d", i, v, image[i])
		}
	}
}

func TestSixteenDigitOutput(t *testing.T) {
	image := []int64{1102, 34915192, 34915192, 7, 4, 7, 99, 0}
	out := port.NewTapePort()
	runToHalt(t, image, port.NewScriptedPort(nil), out)

	tape := out.Tape()
	if len(tape) != 1 || tape[0] != 1219070632396864 {
		t.Fatalf("tape = %v, want [1219070632396864]", tape)
	}
}

func TestLargeImmediate(t *testing.T) {
	image := []int64{104, 1125899906842624, 99}
	out := port.NewTapePort()
	runToHalt(t, image, port.NewScriptedPort(nil), out)

	tape := out.Tape()
	if len(tape) != 1 || tape[0] != 1125899906842624 {
		t.Fatalf("tape = %v, want [1125899906842624]", tape)
	}
}

func TestEqualityPositionMode(t *testing.T) {
	image := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}

	out := port.NewTapePort()
	runToHalt(t, append([]int64(nil), image...), port.NewScriptedPort([]int64{8}), out)
	if tape := out.Tape(); len(tape) != 1 || tape[0] != 1 {
		t.Fatalf("input=8: tape = %v, want [1]", tape)
	}

	out2 := port.NewTapePort()
	runToHalt(t, append([]int64(nil), image...), port.NewScriptedPort([]int64{7}), out2)
	if tape := out2.Tape(); len(tape) != 1 || tape[0] != 0 {
		t.Fatalf("input=7: tape = %v, want [0]", tape)
	}
}

func TestJumpImmediateMode(t *testing.T) {
	image := []int64{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1}

	out := port.NewTapePort()
	runToHalt(t, append([]int64(nil), image...), port.NewScriptedPort([]int64{0}), out)
	if tape := out.Tape(); len(tape) != 1 || tape[0] != 0 {
		t.Fatalf("input=0: tape = %v, want [0]", tape)
	}

	out2 := port.NewTapePort()
	runToHalt(t, append([]int64(nil), image...), port.NewScriptedPort([]int64{42}), out2)
	if tape := out2.Tape(); len(tape) != 1 || tape[0] != 1 {
		t.Fatalf("input=42: tape = %v, want [1]", tape)
	}
}

func TestUnwrittenAddressReadsZero(t *testing.T) {
	// 1101,100,-1,4,0,4,0,99,0: the Add at pc=0 overwrites address 4 (the
	// image's own dst operand) with 99, which the VM then immediately
	// decodes as opcode 99 and halts — address 4 went from its loaded
	// value to a freshly computed one, while any address past the image
	// (never loaded, never written) must still read back as zero.
	image := []int64{1101, 100, -1, 4, 0, 4, 0, 99, 0}
	out := port.NewTapePort()
	m := runToHalt(t, image, port.NewScriptedPort(nil), out)
	if v := m.MemoryRead(4); v != 99 {
		t.Errorf("memory[4] = %d, want 99", v)
	}
	if v := m.MemoryRead(1000); v != 0 {
		t.Errorf("memory[1000] = %d, want 0", v)
	}
}

func TestHaltTwiceIsNoOp(t *testing.T) {
	m := New([]int64{99}, port.NewScriptedPort(nil), port.NewTapePort())
	outcome, err := m.Step()
	if err != nil || outcome != Halted {
		t.Fatalf("first Step: outcome=%v err=%v", outcome, err)
	}
	outcome, err = m.Step()
	if err != nil || outcome != Halted {
		t.Fatalf("second Step: outcome=%v err=%v", outcome, err)
	}
}

func TestCancellationBeforeAnyStepYieldsCancelled(t *testing.T) {
	m := New([]int64{3, 0, 99}, port.NewScriptedPort(nil), port.NewTapePort())
	m.RequestCancel()
	result, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result != ResultCancelled {
		t.Fatalf("Run result = %v, want Cancelled", result)
	}
	if m.PC() != 0 {
		t.Errorf("PC = %d, want 0 (no side effects)", m.PC())
	}
}

func TestBadOpcodeFaults(t *testing.T) {
	m := New([]int64{77}, port.NewScriptedPort(nil), port.NewTapePort())
	_, err := m.Run()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *Fault", err)
	}
	if f.Kind != BadOpcode {
		t.Errorf("Kind = %v, want BadOpcode", f.Kind)
	}
}

func TestImmediateModeOnWriteOperandFaults(t *testing.T) {
	// 1101,0,0,0 in mode "11101": dst parameter forced to immediate mode.
	m := New([]int64{11101, 0, 0, 0, 99}, port.NewScriptedPort(nil), port.NewTapePort())
	_, err := m.Run()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *Fault", err)
	}
	if f.Kind != InvalidWrite {
		t.Errorf("Kind = %v, want InvalidWrite", f.Kind)
	}
}

func TestEndOfScriptedInputFaults(t *testing.T) {
	m := New([]int64{3, 0, 99}, port.NewScriptedPort(nil), port.NewTapePort())
	_, err := m.Run()
	var f *Fault
	if !errors.As(err, &f) {
		t.Fatalf("err = %v, want *Fault", err)
	}
	if f.Kind != EndOfInput {
		t.Errorf("Kind = %v, want EndOfInput", f.Kind)
	}
}

func TestRelativeModeWriteExtendsMemory(t *testing.T) {
	// 109,2000,109,19,21101,3,4,0,204,0,99: adjust relative base to 2000,
	// then to 2019, store 3+4 at relative offset 0 (address 2019, far past
	// the image), then output memory[2019].
	image := []int64{109, 2000, 109, 19, 21101, 3, 4, 0, 204, 0, 99}
	out := port.NewTapePort()
	runToHalt(t, image, port.NewScriptedPort(nil), out)
	if tape := out.Tape(); len(tape) != 1 || tape[0] != 7 {
		t.Fatalf("tape = %v, want [7]", tape)
	}
}

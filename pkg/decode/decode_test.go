package decode

import "testing"

func TestOpcode(t *testing.T) {
	cases := map[int64]int64{
		1:     1,
		99:    99,
		1002:  2,
		11101: 1,
		204:   4,
	}
	for instr, want := range cases {
		if got := Opcode(instr); got != want {
			t.Errorf("Opcode(%d) = %d, want %d", instr, got, want)
		}
	}
}

func TestParamModeDefaultsToPosition(t *testing.T) {
	mode, err := ParamMode(1, 0)
	if err != nil {
		t.Fatalf("ParamMode: %v", err)
	}
	if mode != Position {
		t.Errorf("mode = %v, want Position", mode)
	}
}

func TestParamModeReadsEachDigit(t *testing.T) {
	// 1002: digits above opcode are "10" -> param0 mode 0 (Position), param1 mode 1 (Immediate)
	m0, err := ParamMode(1002, 0)
	if err != nil {
		t.Fatalf("ParamMode(1002, 0): %v", err)
	}
	if m0 != Position {
		t.Errorf("param0 mode = %v, want Position", m0)
	}
	m1, err := ParamMode(1002, 1)
	if err != nil {
		t.Fatalf("ParamMode(1002, 1): %v", err)
	}
	if m1 != Immediate {
		t.Errorf("param1 mode = %v, want Immediate", m1)
	}
}

func TestParamModeRelative(t *testing.T) {
	// 204: digit above opcode is "2" -> Relative
	mode, err := ParamMode(204, 0)
	if err != nil {
		t.Fatalf("ParamMode: %v", err)
	}
	if mode != Relative {
		t.Errorf("mode = %v, want Relative", mode)
	}
}

func TestParamModeRejectsUnknown(t *testing.T) {
	if _, err := ParamMode(3002, 1); err == nil {
		t.Fatal("expected error for mode digit 3")
	}
}

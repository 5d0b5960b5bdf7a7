package host

import (
	"testing"
	"time"

	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/vm"
)

// TestTwoMachinesExchangeExactlyTheEmittedBytes is spec.md §8 invariant 5:
// two machines launched on threads, connected by a pair of Queue ports,
// exchange exactly the bytes the programs emit.
func TestTwoMachinesExchangeExactlyTheEmittedBytes(t *testing.T) {
	// producer: read a seed, double it three times, write each result,
	// then halt.
	producer := []int64{
		3, 30, // read seed into addr 30 (scratch, past the image)
		1, 30, 30, 30, 4, 30, // addr30 += addr30; output
		1, 30, 30, 30, 4, 30,
		1, 30, 30, 30, 4, 30,
		99,
	}
	// consumer: read three words, add them, output the sum, halt.
	consumer := []int64{
		3, 20, 3, 21, 1, 20, 21, 20, 3, 21, 1, 20, 21, 20, 4, 20, 99,
	}

	link := port.NewQueuePort(nil, port.WithPollInterval(time.Millisecond))
	drain := port.NewTapePort()

	p := vm.New(producer, port.NewScriptedPort([]int64{5}), link)
	c := vm.New(consumer, link, drain)

	hp := New(p, "producer")
	hc := New(c, "consumer")
	hp.Start()
	hc.Start()

	hp.Wait()
	hc.Wait()

	// producer emits 10, 20, 40 in that order (seed 5 doubled three
	// times); consumer reads exactly those three words off the shared
	// Queue port and outputs their sum, 70.
	sent := link.Tape()
	if len(sent) != 3 || sent[0] != 10 || sent[1] != 20 || sent[2] != 40 {
		t.Fatalf("link tape = %v, want [10 20 40]", sent)
	}
	tape := drain.Tape()
	if len(tape) != 1 || tape[0] != 70 {
		t.Fatalf("drain tape = %v, want [70]", tape)
	}
}

// TestRequestCancelUnblocksAWaitingMachine exercises the host's
// cancellation contract directly: a Machine blocked forever on an empty
// Queue port exits promptly once cancelled.
func TestRequestCancelUnblocksAWaitingMachine(t *testing.T) {
	in := port.NewQueuePort(nil, port.WithPollInterval(time.Millisecond))
	m := vm.New([]int64{3, 0, 99}, in, port.NewTapePort())
	h := New(m, "waiter")
	h.Start()

	time.Sleep(20 * time.Millisecond)
	h.RequestCancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("host never finished after RequestCancel")
	}

	result, err := h.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if result != vm.ResultCancelled {
		t.Fatalf("result = %v, want Cancelled", result)
	}
}

func TestRunUntilTerminateReturnsHaltedForANaturallyTerminatingProgram(t *testing.T) {
	m := vm.New([]int64{99}, port.NewScriptedPort(nil), port.NewTapePort())
	h := New(m, "halter")
	result, err := h.RunUntilTerminate()
	if err != nil {
		t.Fatalf("RunUntilTerminate: %v", err)
	}
	if result != vm.ResultHalted {
		t.Fatalf("result = %v, want Halted", result)
	}
}

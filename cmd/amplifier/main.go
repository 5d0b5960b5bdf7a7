// Command amplifier wires five Intcode machines into a pipelined
// amplifier chain, with an optional feedback loop from the last machine
// back to the first, per the day-07 amplification-circuit puzzle
// (original_source/mysolution/day07_amplification_circuit/solve.py)
// used here as the canonical demonstration of QueuePort chaining
// (spec.md §8 scenario 6).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cirrusnet/intcode/pkg/host"
	"github.com/cirrusnet/intcode/pkg/image"
	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/vm"
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: amplifier <image-path>")
		os.Exit(2)
	}

	prog, err := image.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "amplifier:", err)
		os.Exit(1)
	}

	fmt.Println(best(prog, permutations([]int64{0, 1, 2, 3, 4}), runChain))
	fmt.Println(best(prog, permutations([]int64{5, 6, 7, 8, 9}), runFeedbackChain))
}

func best(prog []int64, phaseSets [][]int64, run func([]int64, []int64) int64) int64 {
	var max int64
	first := true
	for _, phases := range phaseSets {
		v := run(prog, phases)
		if first || v > max {
			max = v
			first = false
		}
	}
	return max
}

// runChain feeds signal 0 through five amplifiers in sequence and
// returns the final amplifier's output.
func runChain(prog []int64, phases []int64) int64 {
	ports := make([]*port.QueuePort, len(phases)+1)
	for i, p := range phases {
		ports[i] = port.NewQueuePort([]int64{p})
	}
	ports[len(phases)] = port.NewQueuePort(nil)
	ports[0].Write(0, nil)

	hosts := make([]*host.Host, len(phases))
	for i := range phases {
		m := vm.New(prog, ports[i], ports[i+1])
		hosts[i] = host.New(m, fmt.Sprintf("amp%d", i))
		hosts[i].Start()
	}

	drain := ports[len(phases)]
	v, _ := drain.Read(nil)

	for _, h := range hosts {
		h.RequestCancel()
		h.Wait()
	}
	return v
}

// runFeedbackChain wires the last amplifier's output back into the
// first amplifier's input, running until the chain halts, and returns
// the last value the final amplifier emits.
func runFeedbackChain(prog []int64, phases []int64) int64 {
	n := len(phases)
	ports := make([]*port.QueuePort, n)
	for i, p := range phases {
		ports[i] = port.NewQueuePort([]int64{p})
	}
	ports[0].Write(0, nil)

	hosts := make([]*host.Host, n)
	for i := range phases {
		out := ports[(i+1)%n]
		m := vm.New(prog, ports[i], out)
		hosts[i] = host.New(m, fmt.Sprintf("amp%d", i))
		hosts[i].Start()
	}

	for _, h := range hosts {
		h.Wait()
	}

	tape := ports[0].Tape()
	if len(tape) == 0 {
		return 0
	}
	return tape[len(tape)-1]
}

func permutations(vals []int64) [][]int64 {
	var out [][]int64
	var rec func(remaining, acc []int64)
	rec = func(remaining, acc []int64) {
		if len(remaining) == 0 {
			cp := make([]int64, len(acc))
			copy(cp, acc)
			out = append(out, cp)
			return
		}
		for i := range remaining {
			next := make([]int64, 0, len(remaining)-1)
			next = append(next, remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			rec(next, append(acc, remaining[i]))
		}
	}
	rec(vals, nil)
	return out
}

// Command springdroid drives the day-17 "Set and Forget" scaffold-view
// camera program, demonstrating AsciiViewPort end to end: part 1 reads
// the rendered scaffold as characters and sums the alignment parameters
// of every intersection; part 2 feeds a hand-derived movement routine
// back in as ASCII-encoded ScriptedPort input and reports the final
// (non-ASCII) output word, per
// original_source/mysolution/day17_set_and_forget/solve.py.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cirrusnet/intcode/pkg/host"
	"github.com/cirrusnet/intcode/pkg/image"
	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/vm"
)

func main() {
	movement := flag.String("movement", "", "newline-terminated movement routine (main + A/B/C + video feed toggle) to feed as ASCII input for part 2")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: springdroid [-movement=...] <image-path>")
		os.Exit(2)
	}

	prog, err := image.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "springdroid:", err)
		os.Exit(1)
	}

	view := port.NewAsciiViewPort(os.Stdout)
	m := vm.New(prog, port.NewScriptedPort(nil), view)
	h := host.New(m, "springdroid")
	h.RunUntilTerminate()

	rows := strings.Split(strings.Trim(view.Text(), "\n"), "\n")
	fmt.Println(sumAlignmentParameters(rows))

	if *movement == "" {
		return
	}

	patched := make([]int64, len(prog))
	copy(patched, prog)
	patched[0] = 2

	inputWords := make([]int64, 0, len(*movement))
	for _, r := range *movement {
		inputWords = append(inputWords, int64(r))
	}

	drain := port.NewTapePort()
	m2 := vm.New(patched, port.NewScriptedPort(inputWords), drain)
	h2 := host.New(m2, "springdroid-manual")
	h2.RunUntilTerminate()

	if v, ok := drain.Last(); ok {
		fmt.Println(v)
	}
}

// sumAlignmentParameters finds every scaffold intersection (a '#' with
// '#' on all four sides) and sums x*y over the grid's own coordinate
// system. This is the puzzle-specific grid analysis spec.md §1 calls out
// as an external collaborator, kept deliberately small.
func sumAlignmentParameters(rows []string) int64 {
	var sum int64
	for y := 1; y < len(rows)-1; y++ {
		row := rows[y]
		for x := 1; x < len(row)-1; x++ {
			if row[x] != '#' {
				continue
			}
			if rows[y-1][x] == '#' && rows[y+1][x] == '#' && row[x-1] == '#' && row[x+1] == '#' {
				sum += int64(x) * int64(y)
			}
		}
	}
	return sum
}

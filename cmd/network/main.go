// Command network boots 50 copies of the NIC program onto a
// switchfabric.Switch (day-23 "Category Six") and runs the NAT
// idle-detection protocol to completion, per spec.md §4.5. Each
// machine's own network address is its first scripted input word,
// matching original_source/mysolution/day23_category_six/solve.py's
// boot sequence, after which its Bridge supplies -1 on an empty queue.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cirrusnet/intcode/pkg/host"
	"github.com/cirrusnet/intcode/pkg/image"
	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/switchfabric"
	"github.com/cirrusnet/intcode/pkg/vm"
)

const (
	networkSize = 50
	natAddr     = 255
)

func main() {
	pollInterval := flag.Duration("poll-interval", 5*time.Millisecond, "bridge/NAT idle-detection poll interval")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: network [-poll-interval=5ms] <image-path>")
		os.Exit(2)
	}

	prog, err := image.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "network:", err)
		os.Exit(1)
	}

	addrs := make([]int64, networkSize)
	for i := range addrs {
		addrs[i] = int64(i)
	}
	sw := switchfabric.New(natAddr, addrs, switchfabric.WithPollInterval(*pollInterval))

	hosts := make([]*host.Host, networkSize)
	for i := range addrs {
		bridge := sw.BridgeFor(int64(i))
		m := vm.New(prog, bridge, bridge)
		hosts[i] = host.New(m, fmt.Sprintf("nic%d", i))
		hosts[i].Start()
	}

	cancel := port.NewCancelToken()
	x, y, err := sw.RunNATUntilRepeat(cancel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "network:", err)
		os.Exit(1)
	}
	fmt.Println(x)
	fmt.Println(y)

	for _, h := range hosts {
		h.RequestCancel()
	}
	for _, h := range hosts {
		h.Wait()
	}
}

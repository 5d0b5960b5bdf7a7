package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/kr/pty"

	"github.com/cirrusnet/intcode/pkg/image"
	"github.com/cirrusnet/intcode/pkg/vmlog"
)

func main() {
	listenAddr := flag.String("listen", "", "if set, serve the adventure over TCP at this address instead of the local terminal (one session per connection)")
	usePty := flag.Bool("pty", false, "run the local session attached to a fresh pseudo-terminal instead of the process's own stdio")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: adventure [-listen=host:port | -pty] <image-path>")
		os.Exit(2)
	}

	prog, err := image.Load(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "adventure:", err)
		os.Exit(1)
	}

	switch {
	case *listenAddr != "":
		serveTCP(prog, *listenAddr)
	case *usePty:
		playPty(prog)
	default:
		newSession(prog, os.Stdin, os.Stdout).run()
	}
}

// serveTCP listens on addr and runs one adventure session per accepted
// connection, serially, so a telnet client (or the ziutek/telnet test
// harness) can play the game over a real socket end to end.
func serveTCP(prog []int64, addr string) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "adventure:", err)
		os.Exit(1)
	}
	defer ln.Close()
	vmlog.Info("adventure: listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			vmlog.Error("adventure: accept: %v", err)
			return
		}
		vmlog.Info("adventure: session from %s", conn.RemoteAddr())
		newSession(prog, conn, conn).run()
		conn.Close()
	}
}

// playPty runs the session against a freshly allocated pseudo-terminal
// so the adventure behaves like a real interactive program attached to
// a controlling tty rather than a plain pipe, exercising github.com/kr/pty
// the way the teacher vendors it for attached console sessions
// (cmd/minimega's console handling).
func playPty(prog []int64) {
	master, slave, err := pty.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, "adventure:", err)
		os.Exit(1)
	}
	defer master.Close()
	defer slave.Close()

	go func() {
		_, _ = os.Stdout.Write([]byte("adventure: pty opened at " + slave.Name() + "\n"))
	}()

	newSession(prog, master, master).run()
}

// Package main implements the day-25 "Cryostasis" interactive text
// adventure front end: the Intcode program speaks pure ASCII (spec.md
// §4.3(4)'s framing rule, every word < 128), so a session here is just a
// line-oriented text protocol stitched onto an AsciiViewPort output and
// a line-buffered ASCII input port. Grounded on
// original_source/mysolution/machine.py's PrompterPort/PrinterPort, with
// the line-splitting generalized to full command strings instead of
// single integers, since this puzzle (unlike the others) was solved
// interactively by a human rather than automated replay.
package main

import (
	"bufio"
	"errors"
	"io"

	"github.com/cirrusnet/intcode/pkg/port"
	"github.com/cirrusnet/intcode/pkg/vm"
	"github.com/cirrusnet/intcode/pkg/vmlog"
)

// lineInputPort is an Input that reads one full command line at a time
// from an underlying reader, then yields it to the VM one ASCII word at
// a time followed by a newline, matching how the adventure game's input
// routine expects a complete line per read. Grounded on
// original_source/mysolution/machine.py's PrompterPort, generalized from
// "read one integer" to "read one line, drip-feed its characters".
type lineInputPort struct {
	r       *bufio.Reader
	pending []int64
}

func newLineInputPort(r io.Reader) *lineInputPort {
	return &lineInputPort{r: bufio.NewReader(r)}
}

func (p *lineInputPort) Read(cancel *port.CancelToken) (int64, error) {
	if cancel.Cancelled() {
		return 0, port.ErrCancelled
	}
	if len(p.pending) > 0 {
		v := p.pending[0]
		p.pending = p.pending[1:]
		return v, nil
	}

	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return 0, port.ErrEndOfInput
		}
		return 0, port.ErrEndOfInput
	}
	for _, r := range line {
		if r == '\r' {
			continue
		}
		p.pending = append(p.pending, int64(r))
	}
	if len(p.pending) == 0 || p.pending[len(p.pending)-1] != '\n' {
		p.pending = append(p.pending, '\n')
	}

	v := p.pending[0]
	p.pending = p.pending[1:]
	return v, nil
}

// session wires one adventure-program Machine to a single player
// connection (a terminal, a pseudo-terminal, or a TCP/telnet socket):
// an AsciiViewPort renders the game's prose to w, and a lineInputPort
// turns whole lines typed at r into the ASCII word stream the VM reads.
type session struct {
	prog []int64
	r    io.Reader
	w    io.Writer
}

func newSession(prog []int64, r io.Reader, w io.Writer) *session {
	return &session{prog: prog, r: r, w: w}
}

// run plays one session to completion (the program halts, or in is
// closed), returning the transcript of its character output (values
// outside 0..127 are left out).
func (s *session) run() string {
	view := port.NewAsciiViewPort(s.w)
	in := newLineInputPort(s.r)

	m := vm.New(s.prog, in, view)
	if _, err := m.Run(); err != nil {
		vmlog.Error("adventure: session aborted: %v", err)
	}
	return view.Text()
}

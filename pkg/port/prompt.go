package port

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/cirrusnet/intcode/pkg/vmlog"
)

// PromptPort is an Input that reads one integer per line from an
// interactive terminal, using github.com/peterh/liner for history and
// line editing — the same library the teacher's own console
// (cmd/minimega/cli.go) uses for its REPL. Grounded on
// original_source/mysolution/machine.py's PrompterPort.
type PromptPort struct {
	line   *liner.State
	prompt string
	tape   []int64
}

// NewPromptPort constructs a PromptPort reading from the process's
// controlling terminal via liner. Callers should call Close when done to
// restore terminal state.
func NewPromptPort(prompt string) *PromptPort {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	if prompt == "" {
		prompt = "intcode input> "
	}
	return &PromptPort{line: st, prompt: prompt}
}

// Read prompts for and parses one integer. PromptPort never observes
// mid-read cancellation — a human typing at a terminal cannot be
// preempted mid-keystroke — but it refuses to prompt at all once the
// token is already cancelled.
func (p *PromptPort) Read(cancel *CancelToken) (int64, error) {
	if cancel.Cancelled() {
		return 0, ErrCancelled
	}
	for {
		raw, err := p.line.Prompt(p.prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			return 0, ErrEndOfInput
		}
		if err != nil {
			return 0, fmt.Errorf("port: prompt: %w", err)
		}
		trimmed := strings.TrimSpace(raw)
		v, perr := strconv.ParseInt(trimmed, 10, 64)
		if perr != nil {
			vmlog.Warn("prompt: %q is not an integer, try again", trimmed)
			continue
		}
		p.line.AppendHistory(raw)
		p.tape = append(p.tape, v)
		return v, nil
	}
}

// Tape returns every value accepted so far.
func (p *PromptPort) Tape() []int64 {
	out := make([]int64, len(p.tape))
	copy(out, p.tape)
	return out
}

// Close restores the terminal to its prior state.
func (p *PromptPort) Close() error {
	return p.line.Close()
}

// DisplayPort is an Output that writes one formatted line per word to a
// writer (stdout by default), grounded on
// original_source/mysolution/machine.py's PrinterPort.
type DisplayPort struct {
	w      io.Writer
	prefix string
	tape   []int64
}

// NewDisplayPort returns a DisplayPort writing "<prefix><value>\n" lines
// to w.
func NewDisplayPort(w io.Writer, prefix string) *DisplayPort {
	return &DisplayPort{w: w, prefix: prefix}
}

// Write formats and writes value, recording it on an internal tape.
func (d *DisplayPort) Write(value int64, cancel *CancelToken) error {
	if cancel.Cancelled() {
		return ErrCancelled
	}
	d.tape = append(d.tape, value)
	_, err := fmt.Fprintf(d.w, "%s%d\n", d.prefix, value)
	return err
}

// Tape returns every value written so far.
func (d *DisplayPort) Tape() []int64 {
	out := make([]int64, len(d.tape))
	copy(out, d.tape)
	return out
}

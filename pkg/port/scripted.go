package port

// ScriptedPort is an Input backed by a fixed, ordered sequence of words,
// grounded on original_source/mysolution/day07_amplification_circuit's
// phase-seeded QueuePort and spec.md §4.3(1). Reads are never blocking
// and never observe cancellation mid-read: the sequence is exhausted or
// it isn't.
type ScriptedPort struct {
	words []int64
	pos   int
}

// NewScriptedPort returns a ScriptedPort that yields words in order.
func NewScriptedPort(words []int64) *ScriptedPort {
	cp := make([]int64, len(words))
	copy(cp, words)
	return &ScriptedPort{words: cp}
}

// Read returns the next scripted word, or ErrEndOfInput once exhausted.
func (s *ScriptedPort) Read(cancel *CancelToken) (int64, error) {
	if s.pos >= len(s.words) {
		return 0, ErrEndOfInput
	}
	v := s.words[s.pos]
	s.pos++
	return v, nil
}

// Remaining reports how many words are left unread.
func (s *ScriptedPort) Remaining() int {
	return len(s.words) - s.pos
}

package port

import (
	"sync"
	"time"
)

// defaultPollInterval is the fallback wait granularity for QueuePort and
// must stay strictly positive per spec.md §5 ("default ~1-10ms; must be
// strictly positive").
const defaultPollInterval = 2 * time.Millisecond

// QueuePort is a FIFO Input+Output shared between a producer and a
// consumer goroutine (or two Machines), grounded on
// original_source/mysolution/machine.py's QueuedPort, generalized from
// its condition-variable wait into the polling contract spec.md §4.3(5)
// and §5 require: every wait re-checks the cancel token at least once
// per poll interval, and cancellation unblocks promptly even with no
// producer activity.
//
// Bulk ReadN/WriteAll are atomic with respect to other readers/writers
// respectively (spec.md §4.3): readerMu serializes Read/ReadN, writerMu
// serializes Write/WriteAll, so no interleaving is possible between two
// concurrent bulk operations or a bulk operation and a single op.
type QueuePort struct {
	mu       sync.Mutex
	items    []int64
	tape     []int64
	starving bool
	notify   chan struct{}

	readerMu sync.Mutex
	writerMu sync.Mutex

	pollInterval time.Duration
	maxRetries   int // 0 = unbounded waiting
}

// QueueOption configures a QueuePort at construction.
type QueueOption func(*QueuePort)

// WithPollInterval overrides the default wait granularity.
func WithPollInterval(d time.Duration) QueueOption {
	return func(q *QueuePort) {
		if d > 0 {
			q.pollInterval = d
		}
	}
}

// WithMaxRetries bounds how many poll intervals a Read may wait before
// failing with ErrUnavailable. Zero (the default) waits forever modulo
// cancellation.
func WithMaxRetries(n int) QueueOption {
	return func(q *QueuePort) {
		q.maxRetries = n
	}
}

// NewQueuePort returns a QueuePort seeded with initial, in order.
func NewQueuePort(initial []int64, opts ...QueueOption) *QueuePort {
	q := &QueuePort{
		notify:       make(chan struct{}, 1),
		pollInterval: defaultPollInterval,
	}
	for _, v := range initial {
		q.items = append(q.items, v)
		q.tape = append(q.tape, v)
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *QueuePort) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Write enqueues value and wakes any blocked reader.
func (q *QueuePort) Write(value int64, cancel *CancelToken) error {
	q.writerMu.Lock()
	defer q.writerMu.Unlock()
	return q.enqueue(value, cancel)
}

// WriteAll enqueues every value in words as a single atomic operation
// with respect to other writers: no other Write/WriteAll interleaves its
// words in between.
func (q *QueuePort) WriteAll(words []int64, cancel *CancelToken) error {
	q.writerMu.Lock()
	defer q.writerMu.Unlock()
	for _, v := range words {
		if err := q.enqueue(v, cancel); err != nil {
			return err
		}
	}
	return nil
}

func (q *QueuePort) enqueue(value int64, cancel *CancelToken) error {
	if cancel.Cancelled() {
		return ErrCancelled
	}
	q.mu.Lock()
	q.items = append(q.items, value)
	q.tape = append(q.tape, value)
	q.starving = false
	q.mu.Unlock()
	q.signal()
	return nil
}

// Read dequeues the oldest word, blocking until one is available or the
// operation is cancelled.
func (q *QueuePort) Read(cancel *CancelToken) (int64, error) {
	q.readerMu.Lock()
	defer q.readerMu.Unlock()
	return q.dequeue(cancel)
}

// ReadN dequeues exactly n words as a single atomic operation with
// respect to other readers.
func (q *QueuePort) ReadN(n int, cancel *CancelToken) ([]int64, error) {
	q.readerMu.Lock()
	defer q.readerMu.Unlock()
	out := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		v, err := q.dequeue(cancel)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (q *QueuePort) dequeue(cancel *CancelToken) (int64, error) {
	retries := 0
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			q.items = q.items[1:]
			q.starving = false
			q.mu.Unlock()
			return v, nil
		}
		q.starving = true
		q.mu.Unlock()

		if cancel.Cancelled() {
			return 0, ErrCancelled
		}

		select {
		case <-q.notify:
		case <-time.After(q.pollInterval):
		case <-cancel.Done():
			return 0, ErrCancelled
		}

		retries++
		if q.maxRetries > 0 && retries >= q.maxRetries {
			return 0, ErrUnavailable
		}
	}
}

// Starving reports whether the last read attempt found the queue empty
// and no word has arrived since.
func (q *QueuePort) Starving() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.starving
}

// Len reports the number of words currently queued.
func (q *QueuePort) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Tape returns a copy of every word ever queued (the initial seed words,
// then every write), in order —
// useful when a QueuePort doubles as the final drain in a pipeline
// (spec.md's amplifier chain).
func (q *QueuePort) Tape() []int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]int64, len(q.tape))
	copy(out, q.tape)
	return out
}

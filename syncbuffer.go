package mockpipe

import (
	"io"
	"sync"
	"time"
)

// syncBuffer couples a ring buffer with a monitor. All state is guarded by a
// single mutex, and two broadcast signals wake goroutines waiting for data or
// for space. A signal is a channel that is closed and replaced under the
// mutex; waiters capture the current channel before releasing the mutex, so a
// wakeup cannot be lost between the predicate check and the wait.
type syncBuffer struct {
	mu         sync.Mutex
	ring       *ringBuffer
	dataReady  chan struct{}
	spaceReady chan struct{}
}

func newSyncBuffer(capacity int) *syncBuffer {
	return &syncBuffer{
		ring:       newRingBuffer(capacity),
		dataReady:  make(chan struct{}),
		spaceReady: make(chan struct{}),
	}
}

// broadcast wakes every goroutine waiting on the signal. Must be called with
// mu held.
func (b *syncBuffer) broadcast(signal *chan struct{}) {
	close(*signal)
	*signal = make(chan struct{})
}

// await blocks until ready reports true, honoring the wait policy: a negative
// timeout waits indefinitely, zero returns at once whatever the predicate
// says, and a positive timeout waits at most that long before failing with
// ErrTimeout. Must be called with mu held; the mutex is released while
// waiting and held again on return. The predicate is re-evaluated after every
// wakeup, so waking more goroutines than can make progress is harmless.
func (b *syncBuffer) await(timeout time.Duration, signal *chan struct{}, ready func() bool) error {
	if ready() || timeout == 0 {
		return nil
	}

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	for !ready() {
		wake := *signal
		b.mu.Unlock()
		select {
		case <-wake:
			b.mu.Lock()
		case <-expired:
			b.mu.Lock()
			if ready() {
				return nil
			}
			return ErrTimeout
		}
	}
	return nil
}

// read transfers up to len(p) bytes out of the queue, waiting per the policy
// for at least one byte to arrive. The transfer may be short. A read that can
// never produce bytes (zero capacity) or that finds nothing under a zero
// timeout returns 0, io.EOF, matching bytes.Buffer; io.ReadFull layered on
// top then yields the usual io.EOF / io.ErrUnexpectedEOF distinction.
func (b *syncBuffer) read(p []byte, timeout time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ring.capacity() == 0 {
		return 0, io.EOF
	}

	if err := b.await(timeout, &b.dataReady, func() bool { return !b.ring.empty() }); err != nil {
		return 0, err
	}

	n := b.ring.read(p)
	if n == 0 {
		return 0, io.EOF
	}
	b.broadcast(&b.spaceReady)
	return n, nil
}

// write transfers up to len(p) bytes into the queue. Under an indefinite
// timeout it keeps waiting for space until every byte is queued, since
// io.Writer forbids a short write with a nil error. Under a zero or bounded
// timeout a single wait is performed: whatever fits is queued and any
// shortfall is reported as io.ErrShortWrite, or ErrTimeout if the wait
// expired with nothing written.
func (b *syncBuffer) write(p []byte, timeout time.Duration) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ring.capacity() == 0 {
		return 0, io.ErrShortWrite
	}

	notFull := func() bool { return !b.ring.full() }

	if timeout < 0 {
		n := 0
		for n < len(p) {
			if err := b.await(timeout, &b.spaceReady, notFull); err != nil {
				return n, err
			}
			n += b.ring.write(p[n:])
			b.broadcast(&b.dataReady)
		}
		return n, nil
	}

	if err := b.await(timeout, &b.spaceReady, notFull); err != nil {
		return 0, err
	}

	n := b.ring.write(p)
	if n > 0 {
		b.broadcast(&b.dataReady)
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// flush waits, per the policy, until the queue is empty. Space broadcasts
// double as drain notifications since readers emit one after every transfer.
func (b *syncBuffer) flush(timeout time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.await(timeout, &b.spaceReady, b.ring.empty)
}

// clear discards all queued bytes and wakes every waiting writer, since space
// has just become maximally available. Waiting readers are not woken: no new
// data exists for them to consume.
func (b *syncBuffer) clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ring.reset()
	b.broadcast(&b.spaceReady)
}

// length reports the number of queued bytes at this instant. The value is a
// snapshot and may be stale by the time the caller acts on it.
func (b *syncBuffer) length() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ring.length()
}

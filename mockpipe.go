package mockpipe

import (
	"io"
	"sync/atomic"
	"time"
)

var (
	_ io.Reader     = (*Pipe)(nil)
	_ io.Writer     = (*Pipe)(nil)
	_ io.ReadWriter = (*Pipe)(nil)
)

const (
	// NoTimeout makes operations block until they can make progress.
	NoTimeout time.Duration = -1

	// NonBlocking makes operations return immediately with whatever is
	// currently available. This is the default for new endpoints.
	NonBlocking time.Duration = 0
)

// ErrTimeout is returned when a bounded wait elapses before a read, write or
// flush could make progress. No bytes are transferred by the failing call.
// The error implements Timeout() bool, so callers treating a Pipe as a
// network connection stand-in can detect it the way they would a net.Error.
var ErrTimeout error = &timeoutError{}

type timeoutError struct{}

func (*timeoutError) Error() string   { return "mockpipe: i/o timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }

// Pipe is one endpoint of an in-memory byte channel. Reads consume the
// endpoint's read-side buffer and writes fill its write-side buffer; how the
// two sides are wired is decided by the constructor. A Pipe is safe for
// concurrent use, and every goroutine holding the same *Pipe shares the
// underlying buffers and the timeout setting.
//
// Short reads and, under a zero or bounded timeout, short writes are part of
// the contract; callers wanting exact counts should use io.ReadFull or check
// for io.ErrShortWrite.
type Pipe struct {
	// timeout holds a time.Duration: negative blocks indefinitely, zero is
	// non-blocking, positive bounds the wait. Read freshly before every
	// operation, so changing it affects the next call only.
	timeout atomic.Int64

	readBuffer  *syncBuffer
	writeBuffer *syncBuffer
}

func newPipe(readBuffer, writeBuffer *syncBuffer) *Pipe {
	p := &Pipe{
		readBuffer:  readBuffer,
		writeBuffer: writeBuffer,
	}
	p.timeout.Store(int64(NonBlocking))
	return p
}

// Loopback creates an endpoint whose read and write sides share one buffer of
// the given capacity, so data written to the endpoint is read back from it.
func Loopback(capacity int) *Pipe {
	buffer := newSyncBuffer(capacity)
	return newPipe(buffer, buffer)
}

// Pair creates two endpoints backed by two independent buffers of the given
// capacity, cross-wired so that bytes written on one endpoint become readable
// on the other. The two directions are independent queues; no ordering is
// implied between them.
func Pair(capacity int) (*Pipe, *Pipe) {
	buffer1 := newSyncBuffer(capacity)
	buffer2 := newSyncBuffer(capacity)
	return newPipe(buffer1, buffer2), newPipe(buffer2, buffer1)
}

// Timeout reports the wait policy applied to subsequent operations.
func (p *Pipe) Timeout() time.Duration {
	return time.Duration(p.timeout.Load())
}

// SetTimeout changes the wait policy for subsequent operations on this
// endpoint. NoTimeout blocks indefinitely, NonBlocking returns immediately,
// and a positive duration bounds the wait. Operations already in flight keep
// the policy they started with.
func (p *Pipe) SetTimeout(d time.Duration) {
	p.timeout.Store(int64(d))
}

// WithTimeout sets the wait policy and returns the endpoint, for use at
// construction time:
//
//	pipe := mockpipe.Loopback(64).WithTimeout(100 * time.Millisecond)
func (p *Pipe) WithTimeout(d time.Duration) *Pipe {
	p.SetTimeout(d)
	return p
}

// Read implements io.Reader. It transfers up to len(b) bytes from the read
// side, waiting per the endpoint's timeout for at least one byte.
func (p *Pipe) Read(b []byte) (int, error) {
	return p.readBuffer.read(b, p.Timeout())
}

// Write implements io.Writer. It transfers up to len(b) bytes to the write
// side, waiting per the endpoint's timeout for space.
func (p *Pipe) Write(b []byte) (int, error) {
	return p.writeBuffer.write(b, p.Timeout())
}

// Flush waits until every byte queued on the write side has been consumed by
// the peer (or discarded by a clear). The wait honors the endpoint's
// configured timeout, consistent with Read and Write; on a non-blocking
// endpoint Flush returns nil immediately regardless of queued data.
func (p *Pipe) Flush() error {
	return p.writeBuffer.flush(p.Timeout())
}

// ReadBufferLen returns the number of bytes currently available to read.
func (p *Pipe) ReadBufferLen() int {
	return p.readBuffer.length()
}

// WriteBufferLen returns the number of bytes queued on the write side that
// the peer has not yet consumed.
func (p *Pipe) WriteBufferLen() int {
	return p.writeBuffer.length()
}

// ClearRead discards all pending data on the read side and wakes writers
// blocked on it.
func (p *Pipe) ClearRead() {
	p.readBuffer.clear()
}

// ClearWrite discards all queued data on the write side and wakes writers
// blocked on it.
func (p *Pipe) ClearWrite() {
	p.writeBuffer.clear()
}

// Clear discards all pending data on both sides.
func (p *Pipe) Clear() {
	p.ClearRead()
	p.ClearWrite()
}

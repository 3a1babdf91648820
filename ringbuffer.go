package mockpipe

// ringBuffer is a fixed-capacity FIFO byte queue. It is not safe for
// concurrent use; syncBuffer serializes access to it.
type ringBuffer struct {
	data     []byte
	readPos  int
	writePos int
}

// newRingBuffer creates a ring buffer holding at most capacity bytes.
// The backing slice has one extra slot to distinguish full from empty.
func newRingBuffer(capacity int) *ringBuffer {
	if capacity < 0 {
		capacity = 0
	}
	return &ringBuffer{
		data: make([]byte, capacity+1),
	}
}

// capacity returns the maximum number of bytes the buffer can hold.
func (r *ringBuffer) capacity() int {
	return len(r.data) - 1
}

// length returns the number of bytes currently queued.
func (r *ringBuffer) length() int {
	if r.writePos >= r.readPos {
		return r.writePos - r.readPos
	}
	return len(r.data) - r.readPos + r.writePos
}

// free returns the number of bytes that can be written without overwriting
// queued data.
func (r *ringBuffer) free() int {
	return r.capacity() - r.length()
}

// empty returns true if no bytes are queued.
func (r *ringBuffer) empty() bool {
	return r.readPos == r.writePos
}

// full returns true if the buffer is at capacity.
func (r *ringBuffer) full() bool {
	return (r.writePos+1)%len(r.data) == r.readPos
}

// reset discards all queued bytes.
func (r *ringBuffer) reset() {
	r.readPos = 0
	r.writePos = 0
}

// read copies up to len(dst) queued bytes into dst, oldest first, and returns
// the number of bytes copied.
func (r *ringBuffer) read(dst []byte) int {
	toRead := min(r.length(), len(dst))
	if toRead == 0 {
		return 0
	}

	bufLen := len(r.data)
	if r.readPos+toRead <= bufLen {
		copy(dst[:toRead], r.data[r.readPos:r.readPos+toRead])
		r.readPos = (r.readPos + toRead) % bufLen
	} else {
		firstChunk := bufLen - r.readPos
		secondChunk := toRead - firstChunk

		copy(dst[:firstChunk], r.data[r.readPos:])
		copy(dst[firstChunk:toRead], r.data[:secondChunk])

		r.readPos = secondChunk
	}

	return toRead
}

// write copies up to free() bytes from src into the buffer and returns the
// number of bytes copied.
func (r *ringBuffer) write(src []byte) int {
	toWrite := min(r.free(), len(src))
	if toWrite == 0 {
		return 0
	}

	bufLen := len(r.data)
	if r.writePos+toWrite < bufLen {
		copy(r.data[r.writePos:r.writePos+toWrite], src[:toWrite])
		r.writePos += toWrite
	} else {
		firstChunk := bufLen - r.writePos
		secondChunk := toWrite - firstChunk

		copy(r.data[r.writePos:], src[:firstChunk])
		copy(r.data[:secondChunk], src[firstChunk:toWrite])

		r.writePos = secondChunk
	}

	return toWrite
}

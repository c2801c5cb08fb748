package audiobuf

import (
	"encoding/binary"
	"errors"
	"sync"

	"github.com/smallnest/ringbuffer"
)

// Buffer holds binary audio frames for one session until a flush message
// asks for them. Frames are stored length-prefixed inside a bounded ring;
// when the ring fills up the oldest frames are dropped, never the newest.
type Buffer struct {
	mu   sync.Mutex
	size int
	rb   *ringbuffer.RingBuffer
}

func New(size int) *Buffer {
	return &Buffer{
		size: size,
		rb:   ringbuffer.New(size).SetBlocking(false),
	}
}

func (b *Buffer) Capacity() int {
	return b.size
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rb.Length()
}

// Enqueue appends one frame, evicting old frames if needed.
func (b *Buffer) Enqueue(frame []byte) error {
	required := len(frame) + 4
	if required > b.size {
		return errors.New("audio frame too large for buffer")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for b.rb.Free() < required {
		if !b.dropOldestLocked() {
			b.rb.Reset()
			break
		}
	}

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(frame)))
	if _, err := b.rb.Write(prefix[:]); err != nil {
		return err
	}
	_, err := b.rb.Write(frame)
	return err
}

// Drain removes and concatenates every buffered frame, oldest first.
// A drained buffer is empty and immediately reusable.
func (b *Buffer) Drain() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []byte
	for {
		frame, ok := b.dequeueLocked()
		if !ok {
			break
		}
		out = append(out, frame...)
	}
	return out
}

func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rb.Reset()
}

func (b *Buffer) dequeueLocked() ([]byte, bool) {
	if b.rb.IsEmpty() {
		return nil, false
	}
	var prefix [4]byte
	n, err := b.rb.Read(prefix[:])
	if err != nil || n != 4 {
		return nil, false
	}
	size := int(binary.LittleEndian.Uint32(prefix[:]))
	frame := make([]byte, size)
	n, err = b.rb.Read(frame)
	if err != nil || n != size {
		return nil, false
	}
	return frame, true
}

func (b *Buffer) dropOldestLocked() bool {
	_, ok := b.dequeueLocked()
	return ok
}

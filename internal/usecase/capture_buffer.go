package usecase

import (
	"errors"
	"sync"
)

var ErrBufferFinalized = errors.New("capture buffer already finalized")

// CaptureBuffer accumulates raw audio chunks emitted by the recorder in
// arrival order. Finalize concatenates them into one immutable blob and is
// callable exactly once per session.
type CaptureBuffer struct {
	mu        sync.Mutex
	chunks    [][]byte
	size      int
	finalized bool
}

func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

// Append copies chunk into the buffer. Appends after finalization are
// dropped; the finalized blob is immutable.
func (b *CaptureBuffer) Append(chunk []byte) {
	if len(chunk) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		return
	}
	copied := append([]byte(nil), chunk...)
	b.chunks = append(b.chunks, copied)
	b.size += len(copied)
}

// Size returns the number of buffered bytes.
func (b *CaptureBuffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Finalize concatenates all chunks into a single blob.
func (b *CaptureBuffer) Finalize() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finalized {
		return nil, ErrBufferFinalized
	}
	b.finalized = true

	blob := make([]byte, 0, b.size)
	for _, chunk := range b.chunks {
		blob = append(blob, chunk...)
	}
	b.chunks = nil
	return blob, nil
}

// Clear discards all chunks and re-arms the buffer for a fresh capture.
func (b *CaptureBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chunks = nil
	b.size = 0
	b.finalized = false
}

package usecase

import (
	"bytes"
	"errors"
	"testing"
)

func TestCaptureBufferPreservesChunkOrder(t *testing.T) {
	t.Parallel()

	buffer := NewCaptureBuffer()
	buffer.Append([]byte("one"))
	buffer.Append([]byte("two"))
	buffer.Append([]byte("three"))

	if buffer.Size() != len("onetwothree") {
		t.Fatalf("unexpected size %d", buffer.Size())
	}

	blob, err := buffer.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !bytes.Equal(blob, []byte("onetwothree")) {
		t.Fatalf("unexpected blob: %q", blob)
	}
}

func TestCaptureBufferFinalizeOnce(t *testing.T) {
	t.Parallel()

	buffer := NewCaptureBuffer()
	buffer.Append([]byte("data"))

	if _, err := buffer.Finalize(); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	if _, err := buffer.Finalize(); !errors.Is(err, ErrBufferFinalized) {
		t.Fatalf("expected ErrBufferFinalized, got %v", err)
	}
}

func TestCaptureBufferBlobImmutableAfterFinalize(t *testing.T) {
	t.Parallel()

	buffer := NewCaptureBuffer()
	chunk := []byte("abc")
	buffer.Append(chunk)
	chunk[0] = 'z' // caller mutation must not reach the buffer

	blob, err := buffer.Finalize()
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !bytes.Equal(blob, []byte("abc")) {
		t.Fatalf("buffer shared memory with the caller: %q", blob)
	}

	buffer.Append([]byte("late"))
	if !bytes.Equal(blob, []byte("abc")) {
		t.Fatalf("late append mutated the finalized blob: %q", blob)
	}
}

func TestCaptureBufferClearRearms(t *testing.T) {
	t.Parallel()

	buffer := NewCaptureBuffer()
	buffer.Append([]byte("stale"))
	if _, err := buffer.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	buffer.Clear()
	if buffer.Size() != 0 {
		t.Fatalf("expected empty buffer after clear, size %d", buffer.Size())
	}

	buffer.Append([]byte("fresh"))
	blob, err := buffer.Finalize()
	if err != nil {
		t.Fatalf("finalize after clear failed: %v", err)
	}
	if !bytes.Equal(blob, []byte("fresh")) {
		t.Fatalf("stale bytes survived clear: %q", blob)
	}
}

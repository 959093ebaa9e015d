package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/ports"
)

// activeSession holds the mutable state of one recording session, from the
// countdown through review and submission. At most one exists at a time.
type activeSession struct {
	script domain.Script
	cancel context.CancelFunc

	mu                 sync.Mutex
	phase              domain.Phase
	countdownRemaining int
	startedAt          time.Time
	duration           float64
	blob               []byte

	buffer      *CaptureBuffer
	audio       ports.AudioSession
	pumpStarted bool
	pumpDone    chan struct{}
	stopOnce    sync.Once
}

func (s *activeSession) getPhase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *activeSession) setPhase(phase domain.Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

// releaseStream stops the capture stream if one was opened and waits for the
// chunk pump to drain. Safe to call from any phase.
func (s *activeSession) releaseStream() {
	s.mu.Lock()
	stream := s.audio
	started := s.pumpStarted
	s.mu.Unlock()

	if stream == nil {
		return
	}
	_ = stream.Stop()
	if started {
		<-s.pumpDone
	}
}

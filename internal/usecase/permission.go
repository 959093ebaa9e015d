package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/gelogrammer/voice-gateway/internal/domain"
	"github.com/gelogrammer/voice-gateway/internal/ports"
)

var ErrPermissionDenied = errors.New("microphone access denied")

// PermissionGate tracks whether the process may open the capture device.
// The state starts unknown and settles to granted or denied on the first
// probe; a probe opens a short-lived stream and releases it immediately.
type PermissionGate struct {
	capture ports.AudioCapture

	mu    sync.Mutex
	state domain.Permission
}

func NewPermissionGate(capture ports.AudioCapture) *PermissionGate {
	return &PermissionGate{capture: capture, state: domain.PermissionUnknown}
}

// State reports the last known permission without probing.
func (g *PermissionGate) State() domain.Permission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Check probes the device once. Subsequent calls return the settled state
// without touching the device again; use Request to force a fresh probe.
func (g *PermissionGate) Check(ctx context.Context) domain.Permission {
	g.mu.Lock()
	if g.state != domain.PermissionUnknown {
		state := g.state
		g.mu.Unlock()
		return state
	}
	g.mu.Unlock()
	state, _ := g.Request(ctx)
	return state
}

// Request probes the capture device and records the outcome. The probe
// stream is opened and closed inside Probe; no stream stays live.
func (g *PermissionGate) Request(ctx context.Context) (domain.Permission, error) {
	err := g.capture.Probe(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = domain.PermissionDenied
		return g.state, err
	}
	g.state = domain.PermissionGranted
	return g.state, nil
}

// Ensure returns nil when capture is permitted, requesting access if the
// state is still unknown or a prior probe failed.
func (g *PermissionGate) Ensure(ctx context.Context) error {
	if g.State() == domain.PermissionGranted {
		return nil
	}
	state, err := g.Request(ctx)
	if state == domain.PermissionGranted {
		return nil
	}
	if err != nil {
		return err
	}
	return ErrPermissionDenied
}

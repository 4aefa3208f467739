package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/ports"
)

// Session is the directory's live connection to one screen. Its state and stats
// may be read concurrently; sends are serialized by the engine.
type Session struct {
	desc       domain.ScreenDescriptor
	conn       ports.FrameSession
	clock      ports.Clock
	generation uint64

	mu    sync.Mutex
	state domain.SessionState
	stats domain.ScreenStats
}

func newSession(desc domain.ScreenDescriptor, conn ports.FrameSession, clock ports.Clock, generation uint64) *Session {
	return &Session{
		desc:       desc,
		conn:       conn,
		clock:      clock,
		generation: generation,
		state:      domain.SessionConnected,
		stats:      domain.ScreenStats{ConnectedAt: clock.Now()},
	}
}

func (s *Session) Descriptor() domain.ScreenDescriptor {
	return s.desc
}

// Generation identifies the directory rebuild that opened this session.
func (s *Session) Generation() uint64 {
	return s.generation
}

func (s *Session) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Status() ScreenStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScreenStatus{Descriptor: s.desc, State: s.state, Stats: s.stats}
}

func (s *Session) send(ctx context.Context, frame []byte) error {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch state {
	case domain.SessionUnhealthy:
		return fmt.Errorf("push to screen %s: %w", s.desc.ID, domain.ErrScreenUnhealthy)
	case domain.SessionDisconnected:
		return fmt.Errorf("%w: push to screen %s: session closed", domain.ErrDeliveryFailed, s.desc.ID)
	}

	started := s.clock.Now()
	err := s.conn.SendFrame(ctx, frame)
	finished := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.LastFrameAt = finished
	if err != nil {
		s.state = domain.SessionUnhealthy
		s.stats.FramesFailed++
		s.stats.LastError = err.Error()
		if errors.Is(err, domain.ErrDeliveryFailed) {
			return fmt.Errorf("push to screen %s: %w", s.desc.ID, err)
		}
		return fmt.Errorf("%w: push to screen %s: %w", domain.ErrDeliveryFailed, s.desc.ID, err)
	}

	s.stats.FramesSent++
	s.stats.LastAckLatency = finished.Sub(started)
	return nil
}

func (s *Session) close() error {
	s.mu.Lock()
	if s.state == domain.SessionDisconnected {
		s.mu.Unlock()
		return nil
	}
	s.state = domain.SessionDisconnected
	s.mu.Unlock()

	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close screen %s: %w", s.desc.ID, err)
	}
	return nil
}

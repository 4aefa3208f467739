package zmq

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/ports"
	"github.com/go-zeromq/zmq4"
)

const (
	defaultAckTimeout  = 2 * time.Second
	defaultDialTimeout = time.Second
	defaultDialRetries = 3
	dialRetryInterval  = 250 * time.Millisecond
)

// Dialer opens ZeroMQ REQ sockets to screen frame endpoints. Zero values select
// the defaults; a negative DialRetries disables retrying.
type Dialer struct {
	AckTimeout  time.Duration
	DialTimeout time.Duration
	DialRetries int
}

var _ ports.Dialer = Dialer{}

func (d Dialer) Dial(ctx context.Context, endpoint string) (ports.FrameSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConnect, endpoint, err)
	}

	socketCtx, cancel := context.WithCancel(context.Background())
	socket := zmq4.NewReq(socketCtx,
		zmq4.WithDialerTimeout(d.dialTimeout()),
		zmq4.WithDialerRetry(dialRetryInterval),
		zmq4.WithDialerMaxRetries(d.dialRetries()),
	)

	if err := socket.Dial(endpoint); err != nil {
		_ = socket.Close()
		cancel()
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrConnect, endpoint, err)
	}

	return &Session{
		endpoint:   endpoint,
		socket:     socket,
		cancel:     cancel,
		ackTimeout: d.ackTimeout(),
	}, nil
}

func (d Dialer) ackTimeout() time.Duration {
	if d.AckTimeout <= 0 {
		return defaultAckTimeout
	}
	return d.AckTimeout
}

func (d Dialer) dialTimeout() time.Duration {
	if d.DialTimeout <= 0 {
		return defaultDialTimeout
	}
	return d.DialTimeout
}

func (d Dialer) dialRetries() int {
	if d.DialRetries < 0 {
		return 0
	}
	if d.DialRetries == 0 {
		return defaultDialRetries
	}
	return d.DialRetries
}

type reply struct {
	msg zmq4.Msg
	err error
}

// Session is a REQ socket with at most one frame in flight. A REQ socket whose
// reply never arrived cannot send again, so a timed out or canceled send closes it.
type Session struct {
	endpoint   string
	socket     zmq4.Socket
	cancel     context.CancelFunc
	ackTimeout time.Duration

	inFlight  sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ ports.FrameSession = (*Session)(nil)

func (s *Session) SendFrame(ctx context.Context, frame []byte) error {
	if !s.inFlight.TryLock() {
		return fmt.Errorf("%w: %s: request already in flight", domain.ErrDeliveryFailed, s.endpoint)
	}
	defer s.inFlight.Unlock()

	if s.closed.Load() {
		return fmt.Errorf("%w: %s: session closed", domain.ErrDeliveryFailed, s.endpoint)
	}

	if err := s.socket.Send(zmq4.NewMsg(frame)); err != nil {
		return fmt.Errorf("%w: send to %s: %w", domain.ErrDeliveryFailed, s.endpoint, err)
	}

	replies := make(chan reply, 1)
	go func() {
		msg, err := s.socket.Recv()
		replies <- reply{msg: msg, err: err}
	}()

	timer := time.NewTimer(s.ackTimeout)
	defer timer.Stop()

	select {
	case r := <-replies:
		if r.err != nil {
			return fmt.Errorf("%w: receive ack from %s: %w", domain.ErrDeliveryFailed, s.endpoint, r.err)
		}
		return nil
	case <-timer.C:
		_ = s.Close()
		return fmt.Errorf("%w: no ack from %s within %s", domain.ErrDeliveryFailed, s.endpoint, s.ackTimeout)
	case <-ctx.Done():
		_ = s.Close()
		return fmt.Errorf("%w: waiting for ack from %s: %w", domain.ErrDeliveryFailed, s.endpoint, ctx.Err())
	}
}

func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.socket.Close()
		s.cancel()
		if errors.Is(s.closeErr, context.Canceled) || errors.Is(s.closeErr, net.ErrClosed) {
			s.closeErr = nil
		}
	})
	return s.closeErr
}

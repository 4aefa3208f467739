package ports

import "context"

type Dialer interface {
	Dial(ctx context.Context, endpoint string) (FrameSession, error)
}

// FrameSession is one request/reply channel to a screen. SendFrame borrows frame
// only until it returns.
type FrameSession interface {
	SendFrame(ctx context.Context, frame []byte) error
	Close() error
}

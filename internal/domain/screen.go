package domain

import (
	"fmt"
	"strings"
	"time"
)

// Upper bounds on what a descriptor may advertise. A frame for the largest
// accepted screen must still fit comfortably in memory.
const (
	MaxScreenDimension = 16384
	MaxFrameBytes      = 64 << 20
)

type ScreenID string

type SessionState string

const (
	SessionDisconnected SessionState = "disconnected"
	SessionConnected    SessionState = "connected"
	SessionUnhealthy    SessionState = "unhealthy"
)

// ScreenDescriptor is the immutable metadata of one virtual screen.
type ScreenDescriptor struct {
	ID          ScreenID
	Width       int
	Height      int
	Depth       int
	Format      PixelFormat
	Endpoint    string
	CommandPort int
	DeviceType  string
	Description string
	CreatedAt   string
	Origin      string
}

func (d ScreenDescriptor) Validate() error {
	if strings.TrimSpace(string(d.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("screen size %dx%d must be positive", d.Width, d.Height)
	}
	if d.Width > MaxScreenDimension || d.Height > MaxScreenDimension {
		return fmt.Errorf("screen size %dx%d exceeds %d pixels per side", d.Width, d.Height, MaxScreenDimension)
	}
	if !d.Format.Valid() {
		return fmt.Errorf("unsupported pixel depth %d", d.Depth)
	}
	if size := d.FrameSize(); size > MaxFrameBytes {
		return fmt.Errorf("frame of %d bytes exceeds %d", size, MaxFrameBytes)
	}
	if strings.TrimSpace(d.Endpoint) == "" {
		return fmt.Errorf("frame endpoint is required")
	}

	return nil
}

// FrameSize is the number of bytes one frame occupies on the wire.
func (d ScreenDescriptor) FrameSize() int {
	return d.Width * d.Height * d.Format.BytesPerPixel()
}

// DescriptorRecord is a raw screen description as produced by a discovery source,
// before it is parsed into a ScreenDescriptor.
type DescriptorRecord struct {
	Origin string
	Fields map[string]any
	Err    error
}

type ScreenStats struct {
	FramesSent     uint64
	FramesFailed   uint64
	LastAckLatency time.Duration
	LastError      string
	ConnectedAt    time.Time
	LastFrameAt    time.Time
}

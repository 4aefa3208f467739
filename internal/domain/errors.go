package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDiscovery             = errors.New("screen discovery failed")
	ErrInvalidDescriptor     = errors.New("invalid screen descriptor")
	ErrConnect               = errors.New("connect to screen failed")
	ErrDeliveryFailed        = errors.New("frame delivery failed")
	ErrScreenUnhealthy       = fmt.Errorf("%w: screen unhealthy until next connect", ErrDeliveryFailed)
	ErrUnknownScreen         = errors.New("unknown screen")
	ErrUnsupportedConversion = errors.New("unsupported pixel conversion")
	ErrFrameGeometry         = errors.New("invalid frame geometry")
)

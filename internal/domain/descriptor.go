package domain

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

const DefaultScreenHost = "127.0.0.1"

type rawDescriptor struct {
	ID              string `mapstructure:"id"`
	Name            string `mapstructure:"name"`
	Width           int    `mapstructure:"width"`
	Height          int    `mapstructure:"height"`
	ScreenSize      []int  `mapstructure:"screen_size"`
	PixelDepth      int    `mapstructure:"pixel_depth"`
	BitsPerPixel    int    `mapstructure:"bits_per_pixel"`
	Depth           int    `mapstructure:"depth"`
	FrameEndpoint   any    `mapstructure:"frame_endpoint"`
	FrameBufferPort *int   `mapstructure:"frame_buffer_port"`
	CommandPort     *int   `mapstructure:"command_port"`
	CreatedAt       string `mapstructure:"created_at"`
	DeviceType      string `mapstructure:"device_type"`
	Description     string `mapstructure:"description"`
}

// ParseDescriptor normalizes a raw record into a ScreenDescriptor. Both the
// width/height/depth and the screen_size/bits_per_pixel schemas are accepted.
// Endpoints given as a bare port resolve against host.
func ParseDescriptor(record DescriptorRecord, host string) (ScreenDescriptor, error) {
	if record.Err != nil {
		return ScreenDescriptor{}, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, record.Origin, record.Err)
	}
	if host == "" {
		host = DefaultScreenHost
	}

	var raw rawDescriptor
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return ScreenDescriptor{}, fmt.Errorf("create descriptor decoder: %w", err)
	}
	if err := decoder.Decode(record.Fields); err != nil {
		return ScreenDescriptor{}, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, record.Origin, err)
	}

	desc := ScreenDescriptor{
		ID:          ScreenID(strings.TrimSpace(firstNonEmpty(raw.ID, raw.Name))),
		Width:       raw.Width,
		Height:      raw.Height,
		Depth:       firstPositive(raw.PixelDepth, raw.BitsPerPixel, raw.Depth),
		CreatedAt:   raw.CreatedAt,
		DeviceType:  raw.DeviceType,
		Description: raw.Description,
		Origin:      record.Origin,
		CommandPort: -1,
	}
	if len(raw.ScreenSize) == 2 && desc.Width == 0 && desc.Height == 0 {
		desc.Width, desc.Height = raw.ScreenSize[0], raw.ScreenSize[1]
	}
	if raw.CommandPort != nil {
		desc.CommandPort = *raw.CommandPort
	}
	desc.Format = FormatForDepth(desc.Depth)

	endpoint, err := resolveEndpoint(raw, host)
	if err != nil {
		return ScreenDescriptor{}, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, record.Origin, err)
	}
	desc.Endpoint = endpoint

	if err := desc.Validate(); err != nil {
		return ScreenDescriptor{}, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, record.Origin, err)
	}

	return desc, nil
}

func resolveEndpoint(raw rawDescriptor, host string) (string, error) {
	if raw.FrameEndpoint != nil {
		if text, ok := raw.FrameEndpoint.(string); ok {
			text = strings.TrimSpace(text)
			if strings.Contains(text, "://") {
				return text, nil
			}
			if _, _, err := net.SplitHostPort(text); err == nil {
				return "tcp://" + text, nil
			}
		}

		port, err := cast.ToIntE(raw.FrameEndpoint)
		if err != nil {
			return "", fmt.Errorf("frame endpoint %v is neither an address nor a port", raw.FrameEndpoint)
		}
		return tcpEndpoint(host, port)
	}

	if raw.FrameBufferPort == nil {
		return "", fmt.Errorf("frame endpoint is required")
	}
	return tcpEndpoint(host, *raw.FrameBufferPort)
}

func tcpEndpoint(host string, port int) (string, error) {
	if port <= 0 || port > 65535 {
		return "", fmt.Errorf("frame buffer port %d out of range", port)
	}
	return "tcp://" + net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}

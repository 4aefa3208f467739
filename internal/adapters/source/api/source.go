package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/ports"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:12580"
	defaultRequestTimeout = 10 * time.Second
	maxResponseBytes      = 1 << 20
	devicesPath           = "devices"
	infoPath              = "info"
)

// Source asks the device API which devices exist and fetches each device's info.
// Devices whose info carries no screen_size or frame_buffer_port are not screens
// and are left out of the listing.
type Source struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

var _ ports.DescriptorSource = (*Source)(nil)

func (s *Source) Name() string {
	return "api:" + s.baseURL()
}

func (s *Source) List(ctx context.Context) ([]domain.DescriptorRecord, error) {
	devicesURL, err := buildAPIURL(s.baseURL(), devicesPath)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := s.getJSON(ctx, devicesURL, &ids); err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	records := make([]domain.DescriptorRecord, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		infoURL, err := buildAPIURL(s.baseURL(), id, infoPath)
		if err != nil {
			return nil, err
		}

		var fields map[string]any
		if err := s.getJSON(ctx, infoURL, &fields); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			records = append(records, domain.DescriptorRecord{
				Origin: infoURL,
				Err:    fmt.Errorf("fetch device %s info: %w", id, err),
			})
			continue
		}
		if !isScreen(fields) {
			s.logger().Debug("skipping non-screen device", "device", id)
			continue
		}
		fields["id"] = id

		records = append(records, domain.DescriptorRecord{Origin: infoURL, Fields: fields})
	}

	return records, nil
}

func isScreen(fields map[string]any) bool {
	if fields == nil {
		return false
	}
	_, hasSize := fields["screen_size"]
	_, hasPort := fields["frame_buffer_port"]
	return hasSize && hasPort
}

func (s *Source) getJSON(ctx context.Context, endpoint string, target any) error {
	requestCtx, cancel := s.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("request %s: unexpected status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(target); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}

	return nil
}

func (s *Source) baseURL() string {
	if strings.TrimSpace(s.BaseURL) == "" {
		return DefaultBaseURL
	}
	return s.BaseURL
}

func (s *Source) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

func (s *Source) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (s *Source) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	timeout := s.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func buildAPIURL(baseURL string, elems ...string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse api url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("api url must be absolute")
	}
	return parsed.JoinPath(elems...).String(), nil
}

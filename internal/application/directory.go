package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/ports"
)

type directorySnapshot struct {
	sessions map[domain.ScreenID]*Session
	order    []domain.ScreenID
}

var emptySnapshot = &directorySnapshot{sessions: map[domain.ScreenID]*Session{}}

// Directory owns every screen session. Readers see an immutable snapshot that is
// swapped atomically, so Lookup and Sessions never observe a partially built
// directory. Rebuild and Reset must not run concurrently with each other; the
// Engine serializes them.
type Directory struct {
	dialer ports.Dialer
	host   string
	clock  ports.Clock
	logger *slog.Logger

	current    atomic.Pointer[directorySnapshot]
	generation atomic.Uint64
}

func NewDirectory(dialer ports.Dialer, host string, clock ports.Clock, logger *slog.Logger) *Directory {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if host == "" {
		host = domain.DefaultScreenHost
	}

	d := &Directory{dialer: dialer, host: host, clock: clock, logger: logger}
	d.current.Store(emptySnapshot)
	return d
}

// Rebuild releases every current session, then parses and dials each record and
// installs the resulting sessions as the new directory. Malformed records and
// unreachable endpoints are skipped and reported, not fatal.
func (d *Directory) Rebuild(ctx context.Context, records []domain.DescriptorRecord) (DiscoveryReport, error) {
	return d.RebuildWithProgress(ctx, records, nil)
}

// RebuildWithProgress is Rebuild reporting each dial and skip to progress.
func (d *Directory) RebuildWithProgress(ctx context.Context, records []domain.DescriptorRecord, progress ProgressFunc) (DiscoveryReport, error) {
	if err := d.Reset(); err != nil {
		d.logger.Warn("release previous screen sessions", "error", err)
	}

	generation := d.generation.Add(1)
	next := &directorySnapshot{sessions: make(map[domain.ScreenID]*Session, len(records))}
	var report DiscoveryReport

	total := len(records)
	skip := func(index int, skipped SkippedRecord) {
		report.Skipped = append(report.Skipped, skipped)
		progress.emit(DiscoveryEvent{
			Stage: StageSkipped, Index: index, Total: total,
			Origin: skipped.Origin, ID: skipped.ID, Err: skipped.Err,
		})
	}

	for i, record := range records {
		index := i + 1
		if err := ctx.Err(); err != nil {
			return DiscoveryReport{}, errors.Join(err, closeAll(next))
		}

		desc, err := domain.ParseDescriptor(record, d.host)
		if err != nil {
			d.logger.Warn("skip screen descriptor", "origin", record.Origin, "error", err)
			skip(index, SkippedRecord{Origin: record.Origin, Err: err})
			continue
		}

		if _, exists := next.sessions[desc.ID]; exists {
			err := fmt.Errorf("%w: duplicate screen id %q", domain.ErrInvalidDescriptor, desc.ID)
			d.logger.Warn("skip screen descriptor", "origin", record.Origin, "screen", desc.ID, "error", err)
			skip(index, SkippedRecord{Origin: record.Origin, ID: desc.ID, Err: err})
			continue
		}

		progress.emit(DiscoveryEvent{
			Stage: StageDialing, Index: index, Total: total,
			Origin: record.Origin, ID: desc.ID, Endpoint: desc.Endpoint,
		})
		conn, err := d.dialer.Dial(ctx, desc.Endpoint)
		if err != nil {
			if !errors.Is(err, domain.ErrConnect) {
				err = fmt.Errorf("%w: %s: %w", domain.ErrConnect, desc.Endpoint, err)
			}
			d.logger.Warn("skip unreachable screen", "screen", desc.ID, "endpoint", desc.Endpoint, "error", err)
			skip(index, SkippedRecord{Origin: record.Origin, ID: desc.ID, Err: err})
			continue
		}

		next.sessions[desc.ID] = newSession(desc, conn, d.clock, generation)
		next.order = append(next.order, desc.ID)
		report.Connected = append(report.Connected, desc)
		progress.emit(DiscoveryEvent{
			Stage: StageConnected, Index: index, Total: total,
			Origin: record.Origin, ID: desc.ID, Endpoint: desc.Endpoint,
		})
		d.logger.Info("connected screen",
			"screen", desc.ID,
			"endpoint", desc.Endpoint,
			"size", fmt.Sprintf("%dx%d", desc.Width, desc.Height),
			"bpp", desc.Depth,
		)
	}

	sort.Slice(next.order, func(i, j int) bool { return next.order[i] < next.order[j] })
	d.current.Store(next)

	return report, nil
}

func (d *Directory) Lookup(id domain.ScreenID) (*Session, bool) {
	session, ok := d.current.Load().sessions[id]
	return session, ok
}

// Sessions returns the current sessions ordered by screen id.
func (d *Directory) Sessions() []*Session {
	snapshot := d.current.Load()
	sessions := make([]*Session, 0, len(snapshot.order))
	for _, id := range snapshot.order {
		sessions = append(sessions, snapshot.sessions[id])
	}
	return sessions
}

func (d *Directory) Len() int {
	return len(d.current.Load().sessions)
}

// Reset empties the directory and closes every session it held.
func (d *Directory) Reset() error {
	return closeAll(d.current.Swap(emptySnapshot))
}

func closeAll(snapshot *directorySnapshot) error {
	if snapshot == nil {
		return nil
	}

	var errs []error
	for _, session := range snapshot.sessions {
		if err := session.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

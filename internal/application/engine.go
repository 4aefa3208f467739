package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/pixel"
	"github.com/bnema/coverscreen/internal/ports"
)

type EngineOptions struct {
	// Host is used for descriptors that only advertise a port.
	Host   string
	Clock  ports.Clock
	Logger *slog.Logger
}

// Engine forwards frames to the screens of its directory. Connect, PushFrame and
// Stop are serialized by one lock that also guards the conversion scratch buffer,
// which grows on the first frame that needs converting. Status reads do not take it.
type Engine struct {
	mu        sync.Mutex
	directory *Directory
	converter *pixel.Converter
	logger    *slog.Logger
}

func NewEngine(dialer ports.Dialer, opts EngineOptions) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		directory: NewDirectory(dialer, opts.Host, opts.Clock, logger),
		converter: pixel.NewConverter(),
		logger:    logger,
	}
}

// Connect rescans source and rebuilds the directory from what it reports. A
// source that cannot be listed leaves the directory empty.
func (e *Engine) Connect(ctx context.Context, source ports.DescriptorSource) (DiscoveryReport, error) {
	return e.ConnectWithProgress(ctx, source, nil)
}

// ConnectWithProgress is Connect reporting the listed record count and then each
// dial and skip to progress.
func (e *Engine) ConnectWithProgress(ctx context.Context, source ports.DescriptorSource, progress ProgressFunc) (DiscoveryReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Info("discovering screens", "source", source.Name())

	records, err := source.List(ctx)
	if err != nil {
		if resetErr := e.directory.Reset(); resetErr != nil {
			e.logger.Warn("release previous screen sessions", "error", resetErr)
		}
		return DiscoveryReport{Source: source.Name()}, fmt.Errorf("%w: %s: %w", domain.ErrDiscovery, source.Name(), err)
	}

	progress.emit(DiscoveryEvent{Stage: StageListed, Total: len(records)})

	report, err := e.directory.RebuildWithProgress(ctx, records, progress)
	report.Source = source.Name()
	if err != nil {
		return report, fmt.Errorf("rebuild screen directory: %w", err)
	}
	return report, nil
}

// PushFrame converts frame to the screen's pixel format when needed and blocks
// until the screen acknowledges it. frame.Data is not retained after return.
func (e *Engine) PushFrame(ctx context.Context, id domain.ScreenID, frame domain.Frame) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, ok := e.directory.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownScreen, id)
	}
	if session.State() == domain.SessionUnhealthy {
		return fmt.Errorf("push to screen %s: %w", id, domain.ErrScreenUnhealthy)
	}

	desc := session.Descriptor()
	if frame.Width != desc.Width || frame.Height != desc.Height {
		return fmt.Errorf("%w: frame %dx%d does not match screen %s %dx%d",
			domain.ErrFrameGeometry, frame.Width, frame.Height, id, desc.Width, desc.Height)
	}

	data, err := e.converter.Convert(frame, desc.Format)
	if err != nil {
		return fmt.Errorf("convert frame for screen %s: %w", id, err)
	}

	if err := session.send(ctx, data); err != nil {
		e.logger.Warn("frame dropped", "screen", id, "error", err)
		return err
	}

	e.logger.Debug("frame pushed", "screen", id, "bytes", len(data), "from", frame.Format, "to", desc.Format)
	return nil
}

func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.directory.Reset(); err != nil {
		return fmt.Errorf("stop screen sessions: %w", err)
	}
	return nil
}

func (e *Engine) Screen(id domain.ScreenID) (ScreenStatus, error) {
	session, ok := e.directory.Lookup(id)
	if !ok {
		return ScreenStatus{}, fmt.Errorf("%w: %q", domain.ErrUnknownScreen, id)
	}
	return session.Status(), nil
}

func (e *Engine) Screens() []ScreenStatus {
	sessions := e.directory.Sessions()
	statuses := make([]ScreenStatus, 0, len(sessions))
	for _, session := range sessions {
		statuses = append(statuses, session.Status())
	}
	return statuses
}

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/coverscreen/internal/adapters/media"
	screensadapter "github.com/bnema/coverscreen/internal/adapters/render/screens"
	apisource "github.com/bnema/coverscreen/internal/adapters/source/api"
	dirsource "github.com/bnema/coverscreen/internal/adapters/source/dir"
	staticsource "github.com/bnema/coverscreen/internal/adapters/source/static"
	zmqtransport "github.com/bnema/coverscreen/internal/adapters/transport/zmq"
	"github.com/bnema/coverscreen/internal/application"
	"github.com/bnema/coverscreen/internal/config"
	"github.com/bnema/coverscreen/internal/logging"
	"github.com/bnema/coverscreen/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg            config.Config
	logger         *slog.Logger
	engine         *application.Engine
	source         ports.DescriptorSource
	decoder        media.Decoder
	fetcher        media.Fetcher
	screenRenderer func(screensadapter.Report) (string, error)
	now            func() time.Time
}

func wireApp(v *viper.Viper, configPath string, logOutput io.Writer) (*app, error) {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logOutput, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	source, err := newDescriptorSource(cfg.Source, logger)
	if err != nil {
		return nil, fmt.Errorf("wire descriptor source: %w", err)
	}

	clock := ports.SystemClock{}
	engine := application.NewEngine(newDialer(cfg.Transport), application.EngineOptions{
		Host:   cfg.Transport.Host,
		Clock:  clock,
		Logger: logger,
	})

	return &app{
		cfg:    cfg,
		logger: logger,
		engine: engine,
		source: source,
		decoder: media.Decoder{
			FFmpeg:  cfg.Media.FFmpeg,
			FFprobe: cfg.Media.FFprobe,
			Logger:  logger,
		},
		fetcher:        media.Fetcher{Client: &http.Client{Timeout: cfg.Media.FetchTimeout}},
		screenRenderer: screensadapter.Render,
		now:            clock.Now,
	}, nil
}

func newDescriptorSource(cfg config.SourceConfig, logger *slog.Logger) (ports.DescriptorSource, error) {
	switch cfg.Kind {
	case config.SourceKindDir:
		return dirsource.New(cfg.Dir, logger), nil
	case config.SourceKindAPI:
		return &apisource.Source{
			BaseURL:        cfg.APIURL,
			HTTPClient:     &http.Client{Timeout: cfg.HTTPTimeout},
			RequestTimeout: cfg.HTTPTimeout,
			Logger:         logger,
		}, nil
	case config.SourceKindStatic:
		return staticsource.New(cfg.StaticFile), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Kind)
	}
}

func newDialer(cfg config.TransportConfig) zmqtransport.Dialer {
	retries := cfg.DialRetries
	if retries == 0 {
		retries = -1
	}
	return zmqtransport.Dialer{
		AckTimeout:  cfg.AckTimeout,
		DialTimeout: cfg.DialTimeout,
		DialRetries: retries,
	}
}

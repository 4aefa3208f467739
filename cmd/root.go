package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/coverscreen/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var errAppNotWired = errors.New("application is not wired")

const skipWireAnnotation = "coverscreen/skip-wire"

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	v := config.New()
	state := &appState{}
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "coverscreen",
		Short:         "Push frames to cover screens",
		Long:          "coverscreen discovers virtual cover screens, keeps one connection per screen, converts pixel data to each screen's format and pushes frames over ZeroMQ.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipWireAnnotation] == "true" {
				return nil
			}
			app, err := wireApp(v, configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			state.app = app
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/coverscreen/config.toml)")
	flags.String("source", "", "Screen discovery source: dir, api or static")
	flags.String("info-dir", "", "Directory of screen info files for the dir source")
	flags.String("api-url", "", "Device API base URL for the api source")
	flags.String("static-file", "", "TOML screen list for the static source")
	flags.String("host", "", "Host for screens that only advertise a port")
	flags.Duration("ack-timeout", 0, "How long to wait for a screen to acknowledge a frame")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text or json")
	bindFlags(v, flags, map[string]string{
		"source":      config.KeySourceKind,
		"info-dir":    config.KeySourceDir,
		"api-url":     config.KeySourceAPIURL,
		"static-file": config.KeySourceStaticFile,
		"host":        config.KeyTransportHost,
		"ack-timeout": config.KeyTransportAckTimeout,
		"log-level":   config.KeyLogLevel,
		"log-format":  config.KeyLogFormat,
	})

	rootCmd.AddCommand(
		newVersionCmd(),
		newScreensCmd(state),
		newPushCmd(state),
		newColorBarCmd(state),
		newImageCmd(state),
		newPlayCmd(state),
		newVideoCmd(state),
	)

	return rootCmd
}

// appState is filled once flags are parsed; subcommands read it in RunE.
type appState struct {
	app *app
}

func (s *appState) get() (*app, error) {
	if s.app == nil {
		return nil, errAppNotWired
	}
	return s.app, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		// Lookup cannot fail for flags registered just above.
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

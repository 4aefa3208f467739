package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	screensadapter "github.com/bnema/coverscreen/internal/adapters/render/screens"
	"github.com/bnema/coverscreen/internal/application"
	"github.com/bnema/coverscreen/internal/domain"
	"github.com/spf13/cobra"
)

type screenJSON struct {
	ID             string    `json:"id"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Depth          int       `json:"depth"`
	Format         string    `json:"format"`
	FrameBytes     int       `json:"frame_bytes"`
	Endpoint       string    `json:"endpoint"`
	CommandPort    int       `json:"command_port,omitempty"`
	Description    string    `json:"description,omitempty"`
	Origin         string    `json:"origin"`
	State          string    `json:"state"`
	FramesSent     uint64    `json:"frames_sent"`
	FramesFailed   uint64    `json:"frames_failed"`
	LastAckLatency string    `json:"last_ack_latency,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
	ConnectedAt    time.Time `json:"connected_at"`
}

type skippedJSON struct {
	Origin string `json:"origin"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error"`
}

type screensJSON struct {
	Source  string        `json:"source"`
	Screens []screenJSON  `json:"screens"`
	Skipped []skippedJSON `json:"skipped"`
}

func newScreensCmd(state *appState) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "screens",
		Short: "Discover screens and show their connection state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := state.get()
			if err != nil {
				return err
			}
			return runScreens(cmd, app, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runScreens(cmd *cobra.Command, app *app, asJSON bool) (err error) {
	var report application.DiscoveryReport
	if asJSON {
		report, err = app.engine.Connect(cmd.Context(), app.source)
	} else {
		report, err = connectWithProgress(cmd.Context(), cmd.ErrOrStderr(), app)
	}
	defer func() { err = errors.Join(err, app.engine.Stop()) }()
	if err != nil {
		return err
	}

	statuses := app.engine.Screens()
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(toScreensJSON(report, statuses))
	}

	rendered, err := app.screenRenderer(screensadapter.Report{
		Now:     app.now(),
		Source:  report.Source,
		Screens: statuses,
		Skipped: report.Skipped,
	})
	if err != nil {
		return fmt.Errorf("render screens: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

func toScreensJSON(report application.DiscoveryReport, statuses []application.ScreenStatus) screensJSON {
	out := screensJSON{
		Source:  report.Source,
		Screens: make([]screenJSON, 0, len(statuses)),
		Skipped: make([]skippedJSON, 0, len(report.Skipped)),
	}

	for _, status := range statuses {
		out.Screens = append(out.Screens, toScreenJSON(status))
	}
	for _, skipped := range report.Skipped {
		entry := skippedJSON{Origin: skipped.Origin, ID: string(skipped.ID)}
		if skipped.Err != nil {
			entry.Error = skipped.Err.Error()
		}
		out.Skipped = append(out.Skipped, entry)
	}

	return out
}

func toScreenJSON(status application.ScreenStatus) screenJSON {
	desc := status.Descriptor
	entry := screenJSON{
		ID:           string(desc.ID),
		Width:        desc.Width,
		Height:       desc.Height,
		Depth:        desc.Depth,
		Format:       string(desc.Format),
		FrameBytes:   desc.FrameSize(),
		Endpoint:     desc.Endpoint,
		Description:  desc.Description,
		Origin:       desc.Origin,
		State:        string(status.State),
		FramesSent:   status.Stats.FramesSent,
		FramesFailed: status.Stats.FramesFailed,
		LastError:    status.Stats.LastError,
		ConnectedAt:  status.Stats.ConnectedAt,
	}
	if desc.CommandPort > 0 {
		entry.CommandPort = desc.CommandPort
	}
	if status.Stats.LastAckLatency > 0 {
		entry.LastAckLatency = status.Stats.LastAckLatency.String()
	}
	return entry
}

// connectScreen discovers screens and returns the status of id. The caller must
// stop the engine once it is done pushing.
func connectScreen(ctx context.Context, app *app, id string) (application.ScreenStatus, error) {
	if id == "" {
		return application.ScreenStatus{}, errors.New("--screen is required")
	}
	if _, err := app.engine.Connect(ctx, app.source); err != nil {
		return application.ScreenStatus{}, err
	}
	return app.engine.Screen(domain.ScreenID(id))
}

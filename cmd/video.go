package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bnema/coverscreen/internal/adapters/media"
	"github.com/bnema/coverscreen/internal/domain"
	"github.com/spf13/cobra"
)

func newVideoCmd(state *appState) *cobra.Command {
	var (
		screen string
		resize string
		loop   bool
		fps    float64
	)

	cmd := &cobra.Command{
		Use:   "video FILE|URL",
		Short: "Stream a video to a screen through ffmpeg",
		Long: "Stream a video to a screen. ffmpeg decodes and scales the video; frames are pushed at the\n" +
			"source frame rate and a slow screen drops frames instead of falling behind.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := state.get()
			if err != nil {
				return err
			}
			if fps < 0 {
				return fmt.Errorf("--fps must not be negative, got %g", fps)
			}
			mode, err := media.ParseResizeMode(resize)
			if err != nil {
				return err
			}

			status, err := connectScreen(cmd.Context(), app, screen)
			defer func() { err = errors.Join(err, app.engine.Stop()) }()
			if err != nil {
				return err
			}

			desc := status.Descriptor
			stream, err := app.decoder.Open(cmd.Context(), args[0], media.VideoOptions{
				Width:     desc.Width,
				Height:    desc.Height,
				Mode:      mode,
				Loop:      loop,
				FrameRate: fps,
			})
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, stream.Close()) }()

			result, err := streamVideo(cmd, app, desc.ID, stream)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "streamed %d frames on %s (%d dropped)\n", result.pushed, desc.ID, result.dropped)
			return err
		},
	}

	cmd.Flags().StringVar(&screen, "screen", "", "Target screen ID")
	cmd.Flags().StringVar(&resize, "resize", string(media.ResizeFit), "Resize mode: fit, fill or stretch")
	cmd.Flags().BoolVar(&loop, "loop", false, "Repeat the video until interrupted")
	cmd.Flags().Float64Var(&fps, "fps", 0, "Frame rate override; 0 uses the source rate")
	_ = cmd.MarkFlagRequired("screen")

	return cmd
}

type videoSource interface {
	Next() (domain.Frame, error)
	FrameRate() float64
}

type streamResult struct {
	pushed  int
	dropped int
}

// streamVideo pushes one frame per tick. Frames decoded while an earlier push
// was still waiting for its ack are read and discarded so the picture keeps pace
// with the source.
func streamVideo(cmd *cobra.Command, app *app, id domain.ScreenID, stream videoSource) (streamResult, error) {
	ctx := cmd.Context()
	interval := media.FrameInterval(stream.FrameRate())

	var (
		result streamResult
		next   time.Time
	)
	for {
		frame, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return result, ctx.Err()
		}
		if err != nil {
			return result, err
		}

		now := time.Now()
		if next.IsZero() {
			next = now
		}
		if now.Sub(next) >= interval {
			result.dropped++
			next = next.Add(interval)
			continue
		}

		if wait := next.Sub(now); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return result, ctx.Err()
			case <-timer.C:
			}
		}

		if err := app.engine.PushFrame(ctx, id, frame); err != nil {
			return result, err
		}
		result.pushed++
		next = next.Add(interval)
	}
}

package cmd

import (
	"time"

	"github.com/bnema/coverscreen/internal/adapters/media"
	"github.com/bnema/coverscreen/internal/domain"
	"github.com/spf13/cobra"
)

// playAnimation pushes frames at the animation's pace. Each frame's delay counts
// from the moment the previous push was acknowledged.
func playAnimation(cmd *cobra.Command, app *app, id domain.ScreenID, animation media.Animation, loops int) (int, error) {
	ctx := cmd.Context()
	played := 0

	for loop := 0; loops == 0 || loop < loops; loop++ {
		for _, frame := range animation.Frames {
			if err := app.engine.PushFrame(ctx, id, frame.Frame); err != nil {
				return played, err
			}
			played++

			timer := time.NewTimer(frame.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return played, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return played, nil
}

package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/coverscreen/internal/adapters/media"
	"github.com/spf13/cobra"
)

func newColorBarCmd(state *appState) *cobra.Command {
	var screen string

	cmd := &cobra.Command{
		Use:   "colorbar",
		Short: "Draw SMPTE color bars on a screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			app, err := state.get()
			if err != nil {
				return err
			}

			status, err := connectScreen(cmd.Context(), app, screen)
			defer func() { err = errors.Join(err, app.engine.Stop()) }()
			if err != nil {
				return err
			}

			desc := status.Descriptor
			if err := app.engine.PushFrame(cmd.Context(), desc.ID, media.ColorBar(desc.Width, desc.Height)); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "drew color bars on %s\n", desc.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&screen, "screen", "", "Target screen ID")
	_ = cmd.MarkFlagRequired("screen")

	return cmd
}

func newImageCmd(state *appState) *cobra.Command {
	var (
		screen string
		resize string
	)

	cmd := &cobra.Command{
		Use:   "image FILE|URL",
		Short: "Show an image file or URL on a screen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := state.get()
			if err != nil {
				return err
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

			path, cleanup, err := app.fetcher.Localize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			desc := status.Descriptor
			frame, err := media.LoadImage(path, desc.Width, desc.Height, mode)
			if err != nil {
				return err
			}
			if err := app.engine.PushFrame(cmd.Context(), desc.ID, frame); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "showed %s on %s\n", args[0], desc.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&screen, "screen", "", "Target screen ID")
	cmd.Flags().StringVar(&resize, "resize", string(media.ResizeFit), "Resize mode: fit, fill or stretch")
	_ = cmd.MarkFlagRequired("screen")

	return cmd
}

func newPlayCmd(state *appState) *cobra.Command {
	var (
		screen string
		resize string
		loops  int
	)

	cmd := &cobra.Command{
		Use:   "play FILE.gif|URL",
		Short: "Play an animated GIF on a screen",
		Long: "Play an animated GIF on a screen. --loops sets how many times the animation plays; 0 repeats until interrupted.\n" +
			"Without --loops the GIF's own loop count applies.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := state.get()
			if err != nil {
				return err
			}
			if loops < 0 {
				return fmt.Errorf("--loops must not be negative, got %d", loops)
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

			path, cleanup, err := app.fetcher.Localize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer cleanup()

			desc := status.Descriptor
			animation, err := media.LoadGIF(path, desc.Width, desc.Height, mode)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("loops") {
				loops = animation.Plays()
			}

			played, err := playAnimation(cmd, app, desc.ID, animation, loops)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "played %d frames on %s\n", played, desc.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&screen, "screen", "", "Target screen ID")
	cmd.Flags().StringVar(&resize, "resize", string(media.ResizeFit), "Resize mode: fit, fill or stretch")
	cmd.Flags().IntVar(&loops, "loops", 0, "Number of times to play the animation, 0 for forever; defaults to the GIF's loop count")
	_ = cmd.MarkFlagRequired("screen")

	return cmd
}

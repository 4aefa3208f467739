package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/spf13/cobra"
)

const maxRawFrameBytes = domain.MaxFrameBytes

type pushOptions struct {
	screen string
	width  int
	height int
	format string
	stride int
}

func newPushCmd(state *appState) *cobra.Command {
	var opts pushOptions

	cmd := &cobra.Command{
		Use:   "push FILE|-",
		Short: "Push one raw frame to a screen",
		Long:  "Push one raw frame read from FILE, or stdin when FILE is -, converting it to the screen's pixel format. Width and height default to the screen geometry and the format defaults to the screen's own.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			app, err := state.get()
			if err != nil {
				return err
			}

			data, err := readRawFrame(cmd, args[0])
			if err != nil {
				return err
			}

			status, err := connectScreen(cmd.Context(), app, opts.screen)
			defer func() { err = errors.Join(err, app.engine.Stop()) }()
			if err != nil {
				return err
			}

			frame, err := opts.frame(status.Descriptor, data)
			if err != nil {
				return err
			}
			if err := app.engine.PushFrame(cmd.Context(), status.Descriptor.ID, frame); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "pushed %dx%d %s frame to %s\n",
				frame.Width, frame.Height, frame.Format, status.Descriptor.ID)
			return err
		},
	}

	cmd.Flags().StringVar(&opts.screen, "screen", "", "Target screen ID")
	cmd.Flags().IntVar(&opts.width, "width", 0, "Frame width in pixels (default: screen width)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "Frame height in pixels (default: screen height)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Frame pixel format: rgb565, rgb888 or rgba8888 (default: screen format)")
	cmd.Flags().IntVar(&opts.stride, "stride", 0, "Bytes per row when rows are padded")
	_ = cmd.MarkFlagRequired("screen")

	return cmd
}

func (o pushOptions) frame(desc domain.ScreenDescriptor, data []byte) (domain.Frame, error) {
	frame := domain.Frame{
		Data:   data,
		Width:  o.width,
		Height: o.height,
		Stride: o.stride,
		Format: desc.Format,
	}
	if frame.Width == 0 {
		frame.Width = desc.Width
	}
	if frame.Height == 0 {
		frame.Height = desc.Height
	}
	if o.format != "" {
		format, err := domain.ParsePixelFormat(o.format)
		if err != nil {
			return domain.Frame{}, err
		}
		frame.Format = format
	}

	if err := frame.Validate(); err != nil {
		return domain.Frame{}, err
	}
	return frame, nil
}

func readRawFrame(cmd *cobra.Command, path string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open frame file: %w", err)
		}
		defer func() { _ = file.Close() }()
		r = file
	}

	data, err := io.ReadAll(io.LimitReader(r, maxRawFrameBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	if len(data) > maxRawFrameBytes {
		return nil, fmt.Errorf("%w: frame exceeds %d bytes", domain.ErrFrameGeometry, maxRawFrameBytes)
	}
	return data, nil
}

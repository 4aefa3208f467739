package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/coverscreen/internal/application"
	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/ports/mocks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scriptedVideo struct {
	frames  int
	served  int
	stallAt int
	stall   time.Duration
	rate    float64
}

func (v *scriptedVideo) Next() (domain.Frame, error) {
	if v.served == v.frames {
		return domain.Frame{}, io.EOF
	}
	if v.served == v.stallAt {
		time.Sleep(v.stall)
	}
	v.served++
	return domain.Frame{Data: make([]byte, 4), Width: 1, Height: 1, Format: domain.PixelFormatRGBA8888}, nil
}

func (v *scriptedVideo) FrameRate() float64 {
	return v.rate
}

func connectedTestApp(t *testing.T) (*app, *mocks.MockFrameSession) {
	t.Helper()

	dialer := mocks.NewMockDialer(t)
	session := mocks.NewMockFrameSession(t)
	dialer.EXPECT().Dial(mock.Anything, mock.Anything).Return(session, nil).Once()

	source := mocks.NewMockDescriptorSource(t)
	source.EXPECT().Name().Return("static").Maybe()
	source.EXPECT().List(mock.Anything).Return([]domain.DescriptorRecord{{
		Origin: "front.json",
		Fields: map[string]any{"name": "front", "width": 1, "height": 1, "depth": 32, "frame_buffer_port": 5000},
	}}, nil).Once()

	engine := application.NewEngine(dialer, application.EngineOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	_, err := engine.Connect(context.Background(), source)
	require.NoError(t, err)

	return &app{engine: engine, source: source}, session
}

func TestStreamVideoDropsFramesThatMissedTheirSlot(t *testing.T) {
	app, session := connectedTestApp(t)
	session.EXPECT().SendFrame(mock.Anything, mock.Anything).Return(nil).Times(2)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	// 20ms per frame; the stall before the second frame costs four more slots.
	video := &scriptedVideo{frames: 6, stallAt: 1, stall: 100 * time.Millisecond, rate: 50}
	result, err := streamVideo(cmd, app, "front", video)
	require.NoError(t, err)
	assert.Equal(t, streamResult{pushed: 2, dropped: 4}, result)
}

func TestStreamVideoStopsOnCancel(t *testing.T) {
	app, session := connectedTestApp(t)
	session.EXPECT().SendFrame(mock.Anything, mock.Anything).Return(nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)

	_, err := streamVideo(cmd, app, "front", &scriptedVideo{frames: 0, rate: 30})
	require.ErrorIs(t, err, context.Canceled)
}

func writeFakeTool(t *testing.T, dir, name, script string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o700))
	return path
}

func TestVideoStreamsDecodedFrames(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 4, "height": 2, "depth": 16, "frame_buffer_port": peer.port,
	})

	// Three 4x2 RGBA frames.
	ffmpeg := writeFakeTool(t, home, "ffmpeg", "head -c 96 /dev/zero")
	t.Setenv("COVERSCREEN_MEDIA_FFMPEG", ffmpeg)

	stdout, _, err := executeCLI(t, home, "video", "clip.mp4", "--info-dir", infoDir, "--screen", "front", "--fps", "10")
	require.NoError(t, err)
	assert.Contains(t, stdout, "streamed 3 frames on front (0 dropped)")
	for range 3 {
		assert.Len(t, peer.next(t), 4*2*2)
	}
}

func TestVideoReportsDecoderFailure(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 4, "height": 2, "depth": 16, "frame_buffer_port": peer.port,
	})

	ffmpeg := writeFakeTool(t, home, "ffmpeg", "echo 'clip.mp4: No such file or directory' >&2; exit 1")
	t.Setenv("COVERSCREEN_MEDIA_FFMPEG", ffmpeg)

	_, _, err := executeCLI(t, home, "video", "clip.mp4", "--info-dir", infoDir, "--screen", "front", "--fps", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such file or directory")
}

func TestVideoWithoutFFmpeg(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 4, "height": 2, "depth": 16, "frame_buffer_port": peer.port,
	})
	t.Setenv("COVERSCREEN_MEDIA_FFMPEG", filepath.Join(home, "missing-ffmpeg"))

	_, _, err := executeCLI(t, home, "video", "clip.mp4", "--info-dir", infoDir, "--screen", "front")
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("video decoder unavailable: %s not found", filepath.Join(home, "missing-ffmpeg")))
}

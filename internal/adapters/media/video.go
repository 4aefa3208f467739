package media

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/spf13/cast"
)

var ErrDecoderUnavailable = errors.New("video decoder unavailable")

const (
	DefaultFrameRate = 30.0
	maxFrameRate     = 240.0
	stderrTailLines  = 8
)

// Decoder runs ffmpeg and ffprobe. Empty paths are looked up on PATH.
type Decoder struct {
	FFmpeg  string
	FFprobe string
	Logger  *slog.Logger
}

type VideoOptions struct {
	Width  int
	Height int
	Mode   ResizeMode
	Loop   bool
	// FrameRate overrides the detected source rate when positive.
	FrameRate float64
}

// VideoStream yields screen-sized RGBA8888 frames decoded by a running ffmpeg.
// The Data of a returned frame is reused by the next call to Next.
type VideoStream struct {
	ctx       context.Context
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	frame     []byte
	width     int
	height    int
	frameRate float64
	logger    *slog.Logger

	stderrDone chan struct{}
	stderrMu   sync.Mutex
	stderrTail []string

	ended     bool
	closeOnce sync.Once
	closeErr  error
}

// Open starts decoding target, a file path or any URL ffmpeg can read, scaled to
// the requested screen size. The caller must Close the stream.
func (d Decoder) Open(ctx context.Context, target string, opts VideoOptions) (*VideoStream, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: video size %dx%d must be positive", domain.ErrFrameGeometry, opts.Width, opts.Height)
	}

	ffmpeg, err := lookupTool(d.FFmpeg, "ffmpeg")
	if err != nil {
		return nil, err
	}

	rate := opts.FrameRate
	if rate <= 0 {
		rate, err = d.DetectFrameRate(ctx, target)
		if errors.Is(err, ErrDecoderUnavailable) {
			d.logger().Warn("ffprobe unavailable, using default frame rate", "fps", DefaultFrameRate, "error", err)
			rate, err = DefaultFrameRate, nil
		}
		if err != nil {
			return nil, err
		}
	}

	logger := d.logger()
	args := ffmpegArgs(target, opts, rate)
	logger.Debug("starting video decoder", "ffmpeg", ffmpeg, "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("create ffmpeg stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("create ffmpeg stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}

	stream := &VideoStream{
		ctx:        ctx,
		cmd:        cmd,
		stdout:     stdout,
		frame:      make([]byte, opts.Width*opts.Height*domain.PixelFormatRGBA8888.BytesPerPixel()),
		width:      opts.Width,
		height:     opts.Height,
		frameRate:  rate,
		logger:     logger,
		stderrDone: make(chan struct{}),
	}
	go stream.drainStderr(stderr)

	logger.Info("video decoder started", "target", target, "fps", rate, "loop", opts.Loop, "pid", cmd.Process.Pid)
	return stream, nil
}

func (s *VideoStream) FrameRate() float64 {
	return s.frameRate
}

// Next reads the next whole frame. It returns io.EOF once ffmpeg has no more
// complete frames to give.
func (s *VideoStream) Next() (domain.Frame, error) {
	if s.ended {
		return domain.Frame{}, io.EOF
	}

	if _, err := io.ReadFull(s.stdout, s.frame); err != nil {
		s.ended = true
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return domain.Frame{}, io.EOF
		}
		return domain.Frame{}, fmt.Errorf("read decoded frame: %w", err)
	}

	return domain.Frame{
		Data:   s.frame,
		Width:  s.width,
		Height: s.height,
		Format: domain.PixelFormatRGBA8888,
	}, nil
}

// Close stops ffmpeg if it is still running and reaps it. A decoder that ran to
// the end on its own and exited with an error reports that error with its last
// stderr lines.
func (s *VideoStream) Close() error {
	s.closeOnce.Do(func() {
		stopped := !s.ended
		if stopped {
			_ = s.cmd.Process.Kill()
		}
		<-s.stderrDone

		err := s.cmd.Wait()
		if err == nil || stopped || s.ctx.Err() != nil {
			return
		}
		if tail := s.stderrSummary(); tail != "" {
			s.closeErr = fmt.Errorf("ffmpeg: %w: %s", err, tail)
			return
		}
		s.closeErr = fmt.Errorf("ffmpeg: %w", err)
	})
	return s.closeErr
}

func (s *VideoStream) drainStderr(r io.Reader) {
	defer close(s.stderrDone)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		s.logger.Debug("ffmpeg", "stderr", line)

		s.stderrMu.Lock()
		s.stderrTail = append(s.stderrTail, line)
		if len(s.stderrTail) > stderrTailLines {
			s.stderrTail = s.stderrTail[1:]
		}
		s.stderrMu.Unlock()
	}
	_, _ = io.Copy(io.Discard, r)
}

func (s *VideoStream) stderrSummary() string {
	s.stderrMu.Lock()
	defer s.stderrMu.Unlock()
	return strings.Join(s.stderrTail, "; ")
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		Duration     string `json:"duration"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
}

// DetectFrameRate asks ffprobe for the first video stream's frame rate. Media that
// ffprobe cannot read plays at DefaultFrameRate.
func (d Decoder) DetectFrameRate(ctx context.Context, target string) (float64, error) {
	ffprobe, err := lookupTool(d.FFprobe, "ffprobe")
	if err != nil {
		return 0, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffprobe, "-v", "quiet", "-print_format", "json", "-show_streams", target)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("detect frame rate of %s: %w", target, ctxErr)
		}
		d.logger().Warn("detect video frame rate", "target", target, "error", err, "stderr", strings.TrimSpace(stderr.String()))
		return DefaultFrameRate, nil
	}

	return parseFFprobeFrameRate(stdout.Bytes()), nil
}

func parseFFprobeFrameRate(raw []byte) float64 {
	var out ffprobeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return DefaultFrameRate
	}

	for _, stream := range out.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if rate, ok := parseRational(stream.RFrameRate); ok {
			return rate
		}
		if rate, ok := parseRational(stream.AvgFrameRate); ok {
			return rate
		}
		duration := cast.ToFloat64(stream.Duration)
		frames := cast.ToFloat64(stream.NbFrames)
		if duration > 0 && frames > 0 {
			return clampFrameRate(frames / duration)
		}
		return DefaultFrameRate
	}
	return DefaultFrameRate
}

// parseRational reads ffprobe rates such as "30000/1001".
func parseRational(text string) (float64, bool) {
	num, den, ok := strings.Cut(strings.TrimSpace(text), "/")
	if !ok {
		return 0, false
	}
	n, err := cast.ToFloat64E(num)
	if err != nil {
		return 0, false
	}
	d, err := cast.ToFloat64E(den)
	if err != nil || d == 0 || n <= 0 {
		return 0, false
	}
	return clampFrameRate(n / d), true
}

func clampFrameRate(rate float64) float64 {
	if rate > maxFrameRate {
		return maxFrameRate
	}
	return rate
}

// FrameInterval is the time one frame stays on screen at rate.
func FrameInterval(rate float64) time.Duration {
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	return time.Duration(float64(time.Second) / rate)
}

func ffmpegArgs(target string, opts VideoOptions, rate float64) []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}
	if opts.Loop {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args, "-i", target, "-an")

	w, h := opts.Width, opts.Height
	switch opts.Mode {
	case ResizeStretch:
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", w, h))
	case ResizeFill:
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d", w, h, w, h))
	default:
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black", w, h, w, h))
	}

	return append(args,
		"-r", strconv.FormatFloat(rate, 'f', -1, 64),
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
}

func lookupTool(path, name string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = name
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s not found", ErrDecoderUnavailable, path)
		}
		return "", fmt.Errorf("locate %s: %w", name, err)
	}
	return resolved, nil
}

func (d Decoder) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/coverscreen/internal/domain"
	"github.com/bnema/coverscreen/internal/version"
	"github.com/go-zeromq/zmq4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type screenPeer struct {
	port   int
	frames chan []byte
}

func startScreenPeer(t *testing.T) *screenPeer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	socket := zmq4.NewRep(ctx)
	require.NoError(t, socket.Listen("tcp://127.0.0.1:0"))
	t.Cleanup(func() {
		cancel()
		_ = socket.Close()
	})

	addr, ok := socket.Addr().(*net.TCPAddr)
	require.True(t, ok, "unexpected listener address %v", socket.Addr())

	peer := &screenPeer{port: addr.Port, frames: make(chan []byte, 64)}
	go func() {
		for {
			msg, err := socket.Recv()
			if err != nil {
				return
			}
			peer.frames <- append([]byte(nil), msg.Bytes()...)
			if err := socket.Send(zmq4.NewMsgString(`{"status":0,"msg":"ok"}`)); err != nil {
				return
			}
		}
	}()

	return peer
}

func (p *screenPeer) next(t *testing.T) []byte {
	t.Helper()

	select {
	case frame := <-p.frames:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("screen did not receive a frame")
		return nil
	}
}

func writeScreenInfo(t *testing.T, dir, name string, fields map[string]any) {
	t.Helper()

	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), raw, 0o600))
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", stdout)
}

func TestScreensWithEmptyInfoDir(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "screens", "--info-dir", filepath.Join(home, "cover_screen"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "screens: 0")
	assert.Contains(t, stdout, "No screens connected.")
}

func TestScreensListsConnectedAndSkipped(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 4, "height": 2, "depth": 32, "frame_buffer_port": peer.port,
	})
	writeScreenInfo(t, infoDir, "broken", map[string]any{"name": "broken", "width": 4})

	stdout, _, err := executeCLI(t, home, "screens", "--info-dir", infoDir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "screens: 1")
	assert.Contains(t, stdout, "front (4x2 rgba8888)")
	assert.Contains(t, stdout, "[connected]")
	assert.Contains(t, stdout, "skipped: 1")

	stdout, _, err = executeCLI(t, home, "screens", "--info-dir", infoDir, "--json")
	require.NoError(t, err)

	var payload screensJSON
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.Len(t, payload.Screens, 1)
	assert.Equal(t, "front", payload.Screens[0].ID)
	assert.Equal(t, "rgba8888", payload.Screens[0].Format)
	assert.Equal(t, 4*2*4, payload.Screens[0].FrameBytes)
	assert.Equal(t, fmt.Sprintf("tcp://127.0.0.1:%d", peer.port), payload.Screens[0].Endpoint)
	assert.Equal(t, "connected", payload.Screens[0].State)
	require.Len(t, payload.Skipped, 1)
	assert.Equal(t, filepath.Join(infoDir, "broken.json"), payload.Skipped[0].Origin)
}

func TestPushConvertsRawFrameToScreenFormat(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"screen_size": []int{2, 1}, "bits_per_pixel": 32, "frame_buffer_port": peer.port,
	})

	raw := filepath.Join(home, "frame.raw")
	require.NoError(t, os.WriteFile(raw, []byte{0x00, 0xF8, 0xE0, 0x07}, 0o600))

	stdout, _, err := executeCLI(t, home,
		"push", raw,
		"--info-dir", infoDir,
		"--screen", "front",
		"--format", "rgb565",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "pushed 2x1 rgb565 frame to front")
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0xFF}, peer.next(t))
}

func TestPushReadsStdin(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 1, "height": 1, "depth": 24, "frame_buffer_port": peer.port,
	})

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(bytes.NewReader([]byte{1, 2, 3}))
	root.SetArgs([]string{"push", "-", "--info-dir", infoDir, "--screen", "front"})
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	require.NoError(t, root.Execute())
	assert.Equal(t, []byte{1, 2, 3}, peer.next(t))
}

func TestPushErrors(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 2, "height": 2, "depth": 16, "frame_buffer_port": peer.port,
	})
	raw := filepath.Join(home, "frame.raw")
	require.NoError(t, os.WriteFile(raw, make([]byte, 8), 0o600))

	_, _, err := executeCLI(t, home, "push", raw, "--info-dir", infoDir, "--screen", "rear")
	require.ErrorIs(t, err, domain.ErrUnknownScreen)

	_, _, err = executeCLI(t, home, "push", raw, "--info-dir", infoDir, "--screen", "front", "--width", "4")
	require.ErrorIs(t, err, domain.ErrFrameGeometry)

	_, _, err = executeCLI(t, home, "push", raw, "--info-dir", infoDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "screen" not set`)
}

func TestColorBarPushesScreenSizedFrame(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 14, "height": 12, "depth": 16, "frame_buffer_port": peer.port,
	})

	stdout, _, err := executeCLI(t, home, "colorbar", "--info-dir", infoDir, "--screen", "front")
	require.NoError(t, err)
	assert.Contains(t, stdout, "drew color bars on front")
	assert.Len(t, peer.next(t), 14*12*2)
}

func TestImageAndPlayPushFrames(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 8, "height": 4, "depth": 24, "frame_buffer_port": peer.port,
	})

	pngPath := filepath.Join(home, "logo.png")
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	file, err := os.Create(pngPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())

	stdout, _, err := executeCLI(t, home, "image", pngPath, "--info-dir", infoDir, "--screen", "front", "--resize", "stretch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "showed "+pngPath+" on front")
	assert.Len(t, peer.next(t), 8*4*3)

	gifPath := filepath.Join(home, "anim.gif")
	frame := image.NewPaletted(image.Rect(0, 0, 8, 4), color.Palette{color.Black, color.White})
	file, err = os.Create(gifPath)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(file, &gif.GIF{Image: []*image.Paletted{frame, frame}, Delay: []int{1, 1}}))
	require.NoError(t, file.Close())

	stdout, _, err = executeCLI(t, home, "play", gifPath, "--info-dir", infoDir, "--screen", "front", "--loops", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "played 4 frames on front")
	for range 4 {
		assert.Len(t, peer.next(t), 8*4*3)
	}

	oncePath := filepath.Join(home, "once.gif")
	file, err = os.Create(oncePath)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(file, &gif.GIF{Image: []*image.Paletted{frame, frame}, Delay: []int{1, 1}, LoopCount: 1}))
	require.NoError(t, file.Close())

	stdout, _, err = executeCLI(t, home, "play", oncePath, "--info-dir", infoDir, "--screen", "front")
	require.NoError(t, err)
	assert.Contains(t, stdout, "played 4 frames on front", "a loop count of 1 shows the animation twice")
	for range 4 {
		assert.Len(t, peer.next(t), 8*4*3)
	}
}

func TestImageFromURL(t *testing.T) {
	home := t.TempDir()
	infoDir := filepath.Join(home, "cover_screen")
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	peer := startScreenPeer(t)
	writeScreenInfo(t, infoDir, "front", map[string]any{
		"name": "front", "width": 4, "height": 4, "depth": 16, "frame_buffer_port": peer.port,
	})

	var encoded bytes.Buffer
	require.NoError(t, png.Encode(&encoded, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(encoded.Bytes())
	}))
	t.Cleanup(server.Close)

	stdout, _, err := executeCLI(t, home, "image", server.URL+"/cover.png", "--info-dir", infoDir, "--screen", "front")
	require.NoError(t, err)
	assert.Contains(t, stdout, "showed "+server.URL+"/cover.png on front")
	assert.Len(t, peer.next(t), 4*4*2)
}

func TestUnknownSourceKindFails(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "screens", "--source", "mdns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported source kind "mdns"`)
}

func TestStaticSourceFromConfigFile(t *testing.T) {
	home := t.TempDir()
	peer := startScreenPeer(t)

	screensFile := filepath.Join(home, "screens.toml")
	require.NoError(t, os.WriteFile(screensFile, []byte(fmt.Sprintf(`
[[screens]]
id = "panel"
width = 2
height = 2
depth = 16
frame_buffer_port = %d
`, peer.port)), 0o600))

	configDir := filepath.Join(home, ".config", "coverscreen")
	require.NoError(t, os.MkdirAll(configDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(fmt.Sprintf(`
[source]
kind = "static"
static_file = %q
`, screensFile)), 0o600))

	stdout, _, err := executeCLI(t, home, "screens", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": "panel"`)
	assert.Contains(t, stdout, `"source": "static:`+screensFile+`"`)
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

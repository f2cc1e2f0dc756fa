package navserver

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablenav/tablenav/internal/config"
)

// dialTestServer spins up the service and returns a connected client.
func dialTestServer(t *testing.T, cfg config.Config) *websocket.Conn {
	t.Helper()

	srv, err := NewServer(cfg)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

// maskPNG encodes a row-per-string picture as a PNG mask:
// '#' is dark (obstacle), '.' is bright (free).
func maskPNG(t *testing.T, rows []string) []byte {
	t.Helper()

	h := len(rows)
	w := len(rows[0])
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y, row := range rows {
		for x := range w {
			if row[x] == '#' {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sendMask(t *testing.T, conn *websocket.Conn, rows []string) {
	t.Helper()

	frame := append([]byte{frameMask}, maskPNG(t, rows)...)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, frame))
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmd string) {
	t.Helper()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(cmd)))
}

// readPath reads the next frame and decodes it as a path reply.
func readPath(t *testing.T, conn *websocket.Conn) []wirePoint {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.BinaryMessage, msgType)
	require.NotEmpty(t, data)
	require.Equal(t, framePath, data[0])

	var pts []wirePoint
	require.NoError(t, json.Unmarshal(data[1:], &pts))
	return pts
}

var openMask = []string{
	".....",
	".....",
	".....",
	".....",
	".....",
}

func TestMaskUploadReturnsPath(t *testing.T) {
	conn := dialTestServer(t, config.Default())

	sendMask(t, conn, openMask)
	pts := readPath(t, conn)

	// No endpoints configured: right-edge midpoint to left-edge midpoint.
	require.Len(t, pts, 5)
	assert.Equal(t, wirePoint{X: 4, Y: 2}, pts[0])
	assert.Equal(t, wirePoint{X: 0, Y: 2}, pts[len(pts)-1])
}

func TestMaskUploadUndecodable(t *testing.T) {
	conn := dialTestServer(t, config.Default())

	frame := append([]byte{frameMask}, []byte("this is not a png")...)
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, frame))

	assert.Empty(t, readPath(t, conn))
}

func TestMaskUploadOversized(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxMaskBytes = 16

	conn := dialTestServer(t, cfg)
	sendMask(t, conn, openMask)

	assert.Empty(t, readPath(t, conn))
}

func TestRouteCommandReusesGrid(t *testing.T) {
	conn := dialTestServer(t, config.Default())

	sendMask(t, conn, openMask)
	readPath(t, conn)

	sendCommand(t, conn, `{"command":"ROUTE","start":{"x":0,"y":0},"end":{"x":4,"y":4}}`)
	pts := readPath(t, conn)
	require.NotEmpty(t, pts)
	assert.Equal(t, wirePoint{X: 0, Y: 0}, pts[0])
	assert.Equal(t, wirePoint{X: 4, Y: 4}, pts[len(pts)-1])

	// Omitted start falls back to the grid default.
	sendCommand(t, conn, `{"command":"ROUTE","end":{"x":2,"y":0}}`)
	pts = readPath(t, conn)
	require.NotEmpty(t, pts)
	assert.Equal(t, wirePoint{X: 4, Y: 2}, pts[0])
	assert.Equal(t, wirePoint{X: 2, Y: 0}, pts[len(pts)-1])
}

func TestRouteBeforeMask(t *testing.T) {
	conn := dialTestServer(t, config.Default())

	sendCommand(t, conn, `{"command":"ROUTE"}`)
	assert.Empty(t, readPath(t, conn))
}

func TestRouteEndpointsStickAcrossMasks(t *testing.T) {
	conn := dialTestServer(t, config.Default())

	sendMask(t, conn, openMask)
	readPath(t, conn)

	sendCommand(t, conn, `{"command":"ROUTE","start":{"x":1,"y":1},"end":{"x":3,"y":3}}`)
	readPath(t, conn)

	// The next mask keeps planning with the commanded endpoints.
	sendMask(t, conn, openMask)
	pts := readPath(t, conn)
	require.NotEmpty(t, pts)
	assert.Equal(t, wirePoint{X: 1, Y: 1}, pts[0])
	assert.Equal(t, wirePoint{X: 3, Y: 3}, pts[len(pts)-1])

	// RESET returns to the defaults.
	sendCommand(t, conn, `{"command":"RESET"}`)
	sendMask(t, conn, openMask)
	pts = readPath(t, conn)
	require.NotEmpty(t, pts)
	assert.Equal(t, wirePoint{X: 4, Y: 2}, pts[0])
	assert.Equal(t, wirePoint{X: 0, Y: 2}, pts[len(pts)-1])
}

func TestUnreachableGoalAnswersEmptyPath(t *testing.T) {
	conn := dialTestServer(t, config.Default())

	// Solid wall, no gap: default endpoints cannot reach each other.
	sendMask(t, conn, []string{
		"..#..",
		"..#..",
		"..#..",
		"..#..",
		"..#..",
	})

	assert.Empty(t, readPath(t, conn))
}

func TestUnknownFramesIgnored(t *testing.T) {
	conn := dialTestServer(t, config.Default())

	// Camera frame, finger count and an unknown id produce no reply;
	// the next mask upload must still be answered first.
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{frameCameraFrame, 0xde, 0xad}))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{frameFingerCount, 2}))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{9, 1, 2, 3}))
	sendCommand(t, conn, `not json at all`)
	sendCommand(t, conn, `{"command":"DANCE"}`)

	sendMask(t, conn, openMask)
	pts := readPath(t, conn)
	assert.Len(t, pts, 5)
}

func TestSmoothingConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Nav.Smoothing = true

	conn := dialTestServer(t, cfg)
	sendMask(t, conn, openMask)
	pts := readPath(t, conn)

	// The straight crossing collapses to its endpoints.
	require.Len(t, pts, 2)
	assert.Equal(t, wirePoint{X: 4, Y: 2}, pts[0])
	assert.Equal(t, wirePoint{X: 0, Y: 2}, pts[1])
}

func TestDebugImageWritten(t *testing.T) {
	cfg := config.Default()
	cfg.Debug.Enabled = true
	cfg.Debug.Dir = t.TempDir()

	conn := dialTestServer(t, cfg)
	sendMask(t, conn, openMask)
	readPath(t, conn)

	// The render happens before the reply goes out.
	entries, err := os.ReadDir(cfg.Debug.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "path_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".png"))
}

func TestConfiguredEndpoints(t *testing.T) {
	cfg := config.Default()
	cfg.Nav.Start = &config.PointConfig{X: 0, Y: 0}
	cfg.Nav.End = &config.PointConfig{X: 4, Y: 0}

	conn := dialTestServer(t, cfg)
	sendMask(t, conn, openMask)
	pts := readPath(t, conn)

	require.Len(t, pts, 5)
	assert.Equal(t, wirePoint{X: 0, Y: 0}, pts[0])
	assert.Equal(t, wirePoint{X: 4, Y: 0}, pts[len(pts)-1])
}

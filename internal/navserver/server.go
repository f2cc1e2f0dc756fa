// Package navserver serves the mask-to-path WebSocket endpoint: clients
// upload segmentation masks and get planned routes back.
package navserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tablenav/tablenav/internal/config"
	"github.com/tablenav/tablenav/internal/mask"
	"github.com/tablenav/tablenav/internal/nav"
	"github.com/tablenav/tablenav/internal/viz"
)

const (
	// Time allowed to write a reply to the peer.
	writeWait = 10 * time.Second

	// Floor for the read limit so JSON commands always fit, whatever the
	// configured mask limit is.
	minReadLimit = 4096

	shutdownTimeout = 5 * time.Second

	debugScale = 4
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		// Tablet clients connect from arbitrary LAN origins.
		return true
	},
}

// Server owns the WebSocket listener. Connections do not share state: each
// one carries its own grid and endpoints, so the server itself stays
// stateless across clients.
type Server struct {
	cfg config.Config
	mux *http.ServeMux
}

// NewServer prepares the route table and the debug output directory.
func NewServer(cfg config.Config) (*Server, error) {
	if cfg.Debug.Enabled {
		if err := os.MkdirAll(cfg.Debug.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating debug dir %s: %w", cfg.Debug.Dir, err)
		}
	}

	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("/ws", s.handleWS)
	return s, nil
}

// Handler exposes the HTTP routes, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr(),
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{
		srv:  s,
		conn: conn,
		log:  slog.With("remote", conn.RemoteAddr().String()),
	}
	sess.start, sess.end = s.cfg.Nav.Endpoints()
	sess.run()
}

// session is one client connection and the grid it has uploaded. All state
// is confined to the connection's handler goroutine.
type session struct {
	srv    *Server
	conn   *websocket.Conn
	log    *slog.Logger
	engine *nav.Engine

	// nil endpoint = unset, the grid's edge-midpoint default applies.
	start *nav.Point
	end   *nav.Point

	plans int
}

func (sess *session) run() {
	defer sess.conn.Close()

	limit := int64(sess.srv.cfg.Server.MaxMaskBytes) + 1
	if limit < minReadLimit {
		limit = minReadLimit
	}
	sess.conn.SetReadLimit(limit)

	sess.log.Info("client connected")
	for {
		msgType, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				sess.log.Warn("read failed", "error", err)
			} else {
				sess.log.Info("client disconnected")
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			err = sess.handleBinary(data)
		case websocket.TextMessage:
			err = sess.handleText(data)
		}
		if err != nil {
			sess.log.Warn("reply failed", "error", err)
			return
		}
	}
}

func (sess *session) handleBinary(data []byte) error {
	if len(data) == 0 {
		sess.log.Warn("empty binary frame")
		return nil
	}

	typ, payload := data[0], data[1:]
	switch typ {
	case frameMask:
		return sess.handleMask(payload)
	case frameCameraFrame, frameFingerCount:
		sess.log.Debug("skipping frame", "type", typ)
	default:
		sess.log.Warn("unknown binary frame", "type", typ, "bytes", len(data))
	}
	return nil
}

// handleMask decodes the uploaded mask, makes it the connection's current
// grid and plans a route on it right away.
func (sess *session) handleMask(payload []byte) error {
	img, err := mask.DecodeBounded(payload, sess.srv.cfg.Server.MaxMaskBytes)
	if err != nil {
		sess.log.Warn("mask rejected", "error", err, "bytes", len(payload))
		return sess.sendPath(nil)
	}

	ratio := img.BlockedRatio()
	if ratio < sess.srv.cfg.Server.MinBlockedRatio || ratio > sess.srv.cfg.Server.MaxBlockedRatio {
		sess.log.Warn("suspicious mask segmentation", "blocked_ratio", ratio)
	}

	grid, err := img.Grid()
	if err != nil {
		sess.log.Warn("grid build failed", "error", err)
		return sess.sendPath(nil)
	}

	sess.engine = nav.NewEngine(grid)
	sess.log.Info("mask decoded", "width", img.Width, "height", img.Height, "blocked_ratio", ratio)
	return sess.plan()
}

func (sess *session) handleText(data []byte) error {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		sess.log.Warn("bad command frame", "error", err)
		return nil
	}

	switch cmd.Command {
	case commandRoute:
		sess.start = cmd.Start.nav()
		sess.end = cmd.End.nav()
		return sess.plan()
	case commandReset:
		sess.start, sess.end = sess.srv.cfg.Nav.Endpoints()
		sess.log.Info("endpoints reset")
	default:
		sess.log.Warn("unknown command", "command", cmd.Command)
	}
	return nil
}

// plan searches the retained grid and replies with a path frame. Any
// failure is answered with an empty path so the client never hangs.
func (sess *session) plan() error {
	if sess.engine == nil {
		sess.log.Warn("route requested before any mask")
		return sess.sendPath(nil)
	}

	grid := sess.engine.Grid()
	start, end := grid.ResolveEndpoints(sess.start, sess.end)
	res, err := sess.engine.FindPath(start, end)
	if err != nil {
		sess.log.Warn("planning failed", "error", err, "start", start, "end", end)
		return sess.sendPath(nil)
	}

	points := res.Points
	if sess.srv.cfg.Nav.Smoothing {
		points = sess.engine.Smooth(points)
	}

	sess.plans++
	sess.log.Info("path planned",
		"start", start, "end", end,
		"cells", len(points), "cost", res.Cost, "expanded", res.Expanded)

	if sess.srv.cfg.Debug.Enabled {
		sess.saveDebugImage(grid, points)
	}
	return sess.sendPath(points)
}

func (sess *session) saveDebugImage(grid *nav.Grid, points []nav.Point) {
	name := fmt.Sprintf("path_%d_%d.png", time.Now().UnixMilli(), sess.plans)
	out := filepath.Join(sess.srv.cfg.Debug.Dir, name)
	if err := viz.SavePNG(out, grid, points, debugScale); err != nil {
		sess.log.Warn("debug render failed", "error", err)
		return
	}
	sess.log.Debug("debug image written", "file", out)
}

func (sess *session) sendPath(points []nav.Point) error {
	frame, err := encodePathFrame(points)
	if err != nil {
		return err
	}

	sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return sess.conn.WriteMessage(websocket.BinaryMessage, frame)
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/achilleasa/sdfmarch/log"
	"github.com/achilleasa/sdfmarch/renderer"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum control message size.
	maxMessageSize = 64 * 1024
)

// Server streams rendered frames to websocket clients. All clients share
// the same renderer and therefore the same camera and scene.
type Server struct {
	logger   log.Logger
	renderer renderer.Renderer
	codecs   *codecRegistry
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	// Tracks active sessions so that shutdown can wait for them.
	wg sync.WaitGroup
}

// Create a new server for the supplied renderer.
func New(r renderer.Renderer) (*Server, error) {
	codecs, err := newCodecRegistry()
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger:   log.New("server"),
		renderer: r,
		codecs:   codecs,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	s.mux.HandleFunc("/api/health", s.serveHealth)
	s.mux.HandleFunc("/ws", s.serveWS)

	return s, nil
}

// Get the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves HTTP on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Noticef("listening on %s", addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type healthResponse struct {
	Status string `json:"status"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Mode   string `json:"mode"`
	Camera string `json:"camera"`
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	opts := s.renderer.Options()
	resp := healthResponse{
		Status: "ok",
		Width:  opts.FrameW,
		Height: opts.FrameH,
		Mode:   s.renderer.Mode().String(),
		Camera: s.renderer.Camera().String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warningf("could not write health response: %v", err)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	codec, err := s.codecs.ByName(r.URL.Query().Get("codec"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warningf("websocket upgrade failed: %v", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		newSession(s, conn, codec, r.RemoteAddr).run()
	}()
}

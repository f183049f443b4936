package relay

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/graminsta/storysync/internal/logging"
)

// Server answers credential requests from worker connections. One instance
// runs inside the interactive app, bound to a loopback address.
type Server struct {
	source   TokenSource
	log      logging.Logger
	upgrader websocket.Upgrader
}

func NewServer(source TokenSource, log logging.Logger) *Server {
	return &Server{
		source: source,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  512,
			WriteBufferSize: 512,
		},
	}
}

// Handler returns the HTTP routes served by the relay.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/relay", s.handleRelay)
	return r
}

// ListenAndServe runs the relay on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// handleRelay upgrades the connection and serves request/reply exchanges
// until the peer disconnects. Each GET_TOKEN request gets exactly one reply.
func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn(r.Context(), "relay upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug(r.Context(), "relay connection closed", "error", err)
			}
			return
		}

		if req.Type != MessageTypeGetToken {
			s.log.Warn(r.Context(), "relay received unknown message type", "type", req.Type)
			continue
		}

		var resp response
		if token, ok := s.source.Token(); ok {
			resp.Token = &token
		}
		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn(r.Context(), "relay reply failed", "error", err)
			return
		}
	}
}

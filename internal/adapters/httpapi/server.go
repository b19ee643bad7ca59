// Package httpapi exposes the synchronization core over HTTP: the poll
// endpoint for clients and the administrative session endpoints.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 10 * time.Second
	secretHeader      = "X-Client-Secret"
	machineNameHeader = "X-Machine-Name"
)

type Server struct {
	status   StatusAPI
	logger   *slog.Logger
	server   *http.Server
	listener net.Listener
}

func NewServer(status StatusAPI, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{status: status, logger: logger}
}

// Handler builds the route table. Exposed separately from Start so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /statuses/{clientName}", s.handleSyncStatus)
	mux.HandleFunc("GET /statuses", s.handleGetAll)
	mux.HandleFunc("PUT /sessions/{runSessionId}/live-reload", s.handleSetLiveReload)
	mux.HandleFunc("PUT /sessions/{runSessionId}/restart", s.handleRequestRestart)
	mux.HandleFunc("PUT /clients/{clientName}/restart-required", s.handleMarkRestartRequired)

	return mux
}

func (s *Server) Start(listenAddr string) error {
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listen api server: %w", err)
	}

	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server stopped", "error", err)
		}
	}()

	s.logger.Info("api server listening", "addr", listener.Addr().String())

	return nil
}

func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}

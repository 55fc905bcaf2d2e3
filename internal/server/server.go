// Package server exposes the geodome pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz            liveness and build information
//	GET  /v1/config/default  the built-in configuration
//	POST /v1/layouts         partition and stack a geometry document
//
// A layout request carries the configuration in its JSON form (the TOML
// tables as objects) next to the geometry document:
//
//	{"config": {"printer": {"volume": [650, 550, 350]}}, "geometry": {...}}
//
// Omitted configuration keys keep their defaults. Errors are returned as
// {"code": "...", "message": "..."} with a status derived from the code.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/geodome/pkg/buildinfo"
	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/errors"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/observability"
	"github.com/matzehuels/geodome/pkg/pipeline"
)

// DefaultMaxBody bounds the size of a request body.
const DefaultMaxBody = 64 << 20

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
}

// New creates a server running requests through runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger, maxBody: DefaultMaxBody}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/config/default", s.handleDefaultConfig)
		r.Post("/layouts", s.handleLayout)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    string(errors.ErrCodeUnsupported),
			Message: r.Method + " is not allowed on " + r.URL.Path,
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": info.Version,
		"build":   info,
	})
}

func (s *Server) handleDefaultConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, config.Default())
}

// layoutRequest is the body of POST /v1/layouts.
type layoutRequest struct {
	Config   json.RawMessage `json:"config"`
	Geometry json.RawMessage `json:"geometry"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}
	if len(bytes.TrimSpace(req.Geometry)) == 0 || bytes.Equal(bytes.TrimSpace(req.Geometry), []byte("null")) {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "request has no geometry"))
		return
	}

	cfg, err := config.ParseJSON(req.Config)
	if err != nil {
		writeError(w, err)
		return
	}
	in, err := pipeline.DecodeInput(req.Geometry)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), cfg, in)
	if err != nil {
		s.logger.Warn("layout failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if res.CacheInfo.PartitionHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if err := geoio.WriteLayout(res.Layout, w); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

// observe reports every request to the server hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration)
	})
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, errors.HTTPStatus(err), errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

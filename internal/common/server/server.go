// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealer-assistant/internal/common/config"
	apperrors "dealer-assistant/internal/common/errors"
	"dealer-assistant/internal/common/logger"
	"dealer-assistant/internal/common/turnlog"
	"dealer-assistant/internal/common/validation"
	buildprompt "dealer-assistant/internal/workers/assistant/build-prompt"
)

const (
	maxBodyBytes       = 64 << 10
	noMessageError     = "No message provided"
	requestIDHeader    = "X-Request-ID"
	readyCheckDeadline = 2 * time.Second
)

// Assistant runs one chat turn.
type Assistant interface {
	Execute(ctx context.Context, input *buildprompt.Input) *buildprompt.Output
}

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

type Server struct {
	cfg       config.ServerConfig
	assistant Assistant
	turns     turnlog.Log
	checks    map[string]ReadyCheck
	logger    logger.Logger
	handler   http.Handler
}

func New(cfg config.ServerConfig, assistant Assistant, turns turnlog.Log, log logger.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		assistant: assistant,
		turns:     turns,
		checks:    make(map[string]ReadyCheck),
		logger:    log.With(map[string]interface{}{"component": "http"}),
	}

	mux := http.NewServeMux()
	mux.Handle("POST /chat", instrument("/chat", http.HandlerFunc(s.handleChat)))
	mux.Handle("GET /turns", instrument("/turns", http.HandlerFunc(s.handleTurns)))
	mux.Handle("GET /health", instrument("/health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /ready", instrument("/ready", http.HandlerFunc(s.handleReady)))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.handler = requestID(accessLog(s.logger, cors(mux)))
	return s
}

// AddReadyCheck registers a dependency consulted by GET /ready.
func (s *Server) AddReadyCheck(name string, check ReadyCheck) {
	s.checks[name] = check
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  config.GetDuration(s.cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", map[string]interface{}{"address": s.cfg.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received, draining requests", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(s.cfg.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type errorResponse struct {
	Error   string                       `json:"error"`
	Code    string                       `json:"code,omitempty"`
	Details []validation.ValidationError `json:"details,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, apperrors.NewInvalidRequestError(err.Error()), noMessageError, nil)
		return
	}

	if result := validation.ValidateChatRequest(body); !result.Valid {
		writeError(w, apperrors.NewInvalidRequestError("message is required"), noMessageError, result.Errors)
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, apperrors.NewInvalidRequestError(err.Error()), noMessageError, nil)
		return
	}

	out := s.assistant.Execute(r.Context(), &buildprompt.Input{Message: req.Message})
	if out.Fallback {
		loggerFrom(r.Context(), s.logger).Warn("chat answered with fallback", map[string]interface{}{
			"errorCode": out.ErrorCode,
			"retryable": apperrors.IsRetryableErrorCode(apperrors.ErrorCode(out.ErrorCode)),
		})
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: out.Reply})
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	entries, err := s.turns.Entries(r.Context())
	if err != nil {
		stdErr := apperrors.NewInternalError(err)
		loggerFrom(r.Context(), s.logger).Error("failed to read turn log", map[string]interface{}{
			"error": err.Error(),
		})
		writeError(w, stdErr, "failed to read turn log", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(entries),
		"turns": entries,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckDeadline)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": results,
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *apperrors.StandardError, msg string, details []validation.ValidationError) {
	writeJSON(w, apperrors.HTTPStatus(err.Code), errorResponse{
		Error:   msg,
		Code:    string(err.Code),
		Details: details,
	})
}

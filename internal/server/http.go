// Package server exposes the skill over HTTPS to the voice platform and a gRPC
// health service for the orchestrator.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/evisdrenova/zonaei-skill/internal/alexa"
	"github.com/evisdrenova/zonaei-skill/internal/metrics"
	"github.com/evisdrenova/zonaei-skill/internal/ratelimit"
)

var (
	errStaleRequest   = errors.New("request timestamp outside tolerance")
	errWrongApp       = errors.New("request addressed to another application")
	errMissingRequest = errors.New("envelope has no request")
)

// Invoker runs one turn of the skill.
type Invoker interface {
	Invoke(ctx context.Context, env *alexa.RequestEnvelope) (*alexa.ResponseEnvelope, error)
}

type Options struct {
	ApplicationID      string
	VerifyTimestamp    bool
	TimestampTolerance time.Duration
	MaxBodyBytes       int64
	Limiter            *ratelimit.UserLimiter
}

type HTTPServer struct {
	skill Invoker
	opts  Options
	now   func() time.Time
}

func NewHTTPServer(skill Invoker, opts Options) *HTTPServer {
	if opts.TimestampTolerance <= 0 {
		opts.TimestampTolerance = 150 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 256 << 10
	}
	return &HTTPServer{skill: skill, opts: opts, now: time.Now}
}

func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(accessLog)
	r.HandleFunc("/skill", s.handleSkill).Methods(http.MethodPost)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return r
}

func (s *HTTPServer) handleSkill(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	var env alexa.RequestEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		http.Error(w, fmt.Sprintf("invalid envelope: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.validate(&env); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Msg("rejected envelope")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !s.opts.Limiter.Allow(alexa.UserID(&env), s.now()) {
		metrics.RateLimited.Inc()
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	logger := log.Ctx(r.Context()).With().
		Str("session_id", alexa.SessionID(&env)).
		Str("request_id", env.Request.RequestID).
		Logger()
	ctx := logger.WithContext(r.Context())

	out, err := s.skill.Invoke(ctx, &env)
	if err != nil {
		logger.Error().Err(err).Msg("skill invocation failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		logger.Error().Err(err).Msg("encode response")
	}
}

func (s *HTTPServer) validate(env *alexa.RequestEnvelope) error {
	if env.Request == nil || env.Request.Type == "" {
		return errMissingRequest
	}
	if s.opts.ApplicationID != "" && alexa.ApplicationID(env) != s.opts.ApplicationID {
		return errWrongApp
	}
	if s.opts.VerifyTimestamp {
		skew := s.now().Sub(env.Request.Timestamp)
		if skew < 0 {
			skew = -skew
		}
		if skew > s.opts.TimestampTolerance {
			return fmt.Errorf("%w: %s", errStaleRequest, skew.Truncate(time.Second))
		}
	}
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// accessLog attaches the global logger to the request context and logs each request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := log.Logger.WithContext(r.Context())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r.WithContext(ctx))

		level := zerolog.DebugLevel
		if rec.status >= 500 {
			level = zerolog.ErrorLevel
		} else if rec.status >= 400 {
			level = zerolog.WarnLevel
		}
		log.WithLevel(level).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// ServeHTTP runs srv until ctx is cancelled, then shuts it down gracefully.
func ServeHTTP(ctx context.Context, srv *http.Server, certFile, keyFile string, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if certFile != "" && keyFile != "" {
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

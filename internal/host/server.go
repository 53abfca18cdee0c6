package host

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	functions "github.com/Jayother24/firebase-functions"
	"github.com/Jayother24/firebase-functions/internal/metrics"
	"github.com/Jayother24/firebase-functions/internal/requestctx"
)

// Server mounts every registered function on an HTTP mux and serves it.
type Server struct {
	cfg        *Config
	httpServer *http.Server
}

// New builds a server over the current registry contents.
func New(cfg *Config) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &Server{cfg: cfg}
	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler builds the full request chain: routing plus the host middleware
// stack. Function-level stages (CORS, callable protocol) are already baked
// into each artifact, so the host only adds ambient concerns.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /__/manifest", serveManifest)

	for name, fn := range functions.Registered() {
		switch f := fn.(type) {
		case functions.HTTPFunction:
			mux.Handle("/"+name, named(name, f))
			mux.Handle("/"+name+"/", named(name, f))
		case functions.EventFunction:
			mux.Handle("POST /"+name, named(name, eventHandler(name, f)))
		default:
			log.Warn().
				Str("function", name).
				Msg("Registered function has no servable trigger")
		}
	}

	return Chain(mux,
		RecoveryMiddleware,
		RequestIDMiddleware,
		LoggingMiddleware,
		MetricsMiddleware,
	)
}

// named records the target function name in the request context before the
// handler runs.
func named(name string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(requestctx.WithFunctionName(r.Context(), name)))
	})
}

// eventHandler adapts an event-driven function to HTTP: the POSTed body is
// the raw transport envelope, handed to the function's runtime wrapper
// as-is.
func eventHandler(name string, fn functions.EventFunction) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read event payload", http.StatusBadRequest)
			return
		}

		start := time.Now()
		err = fn.Invoke(r.Context(), payload)
		duration := time.Since(start)

		if err != nil {
			metrics.RecordInvocation(name, "error", duration)
			log.Error().
				Err(err).
				Str("function", name).
				Msg("Event invocation failed")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		metrics.RecordInvocation(name, "ok", duration)
		w.WriteHeader(http.StatusNoContent)
	})
}

// serveManifest writes the compiled deployment manifest as JSON, or as YAML
// when requested via ?format=yaml or the Accept header.
func serveManifest(w http.ResponseWriter, r *http.Request) {
	manifest := functions.BuildManifest()

	if r.URL.Query().Get("format") == "yaml" || r.Header.Get("Accept") == "application/yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		if err := yaml.NewEncoder(w).Encode(manifest); err != nil {
			log.Error().Err(err).Msg("Failed to encode manifest")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(manifest); err != nil {
		log.Error().Err(err).Msg("Failed to encode manifest")
	}
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().
			Str("addr", s.cfg.Addr()).
			Int("functions", len(functions.Registered())).
			Msg("Function host listening")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

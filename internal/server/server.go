package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osse101/ToolForge_Go/internal/forge"
	"github.com/osse101/ToolForge_Go/internal/handler"
	"github.com/osse101/ToolForge_Go/internal/logger"
	"github.com/osse101/ToolForge_Go/internal/metrics"
)

// Options configures the HTTP server
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	Version        string
	// PackChecksum identifies the loaded material pack on /version
	PackChecksum string
	// DB decides readiness; nil when tools are kept in memory
	DB    handler.Pinger
	Forge forge.Service
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the route tree. Exposed so tests can drive it with httptest.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	tracker := NewClientTracker()

	if opts.APIKey == "" {
		slog.Default().Warn(LogMsgAuthDisabled)
	}

	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(RateLimitMiddleware(opts.TrustedProxies, tracker))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.DB))
	r.Get("/version", handler.HandleVersion(opts.Version, opts.PackChecksum))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/materials", handler.HandleListMaterials(opts.Forge))
		r.Get("/tool-types", handler.HandleListToolTypes(opts.Forge))

		r.Route("/tools", func(r chi.Router) {
			r.Post("/preview", handler.HandlePreviewTool(opts.Forge))
			r.Get("/{id}", handler.HandleGetTool(opts.Forge))

			// Everything that writes tool state sits behind the API key
			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(opts.APIKey, opts.TrustedProxies, tracker))
				r.Post("/", handler.HandleBuildTool(opts.Forge))
				r.Post("/assemble", handler.HandleAssembleTool(opts.Forge))
				r.Post("/{id}/repair", handler.HandleRepairTool(opts.Forge))
				r.Post("/{id}/damage", handler.HandleDamageTool(opts.Forge))
				r.Post("/{id}/modifiers", handler.HandleApplyModifier(opts.Forge))
			})
		})
	})

	return r
}

// requestID reuses a well-formed X-Request-ID from the caller, else makes one
func requestID(r *http.Request) string {
	if id := r.Header.Get(HeaderRequestID); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return logger.GenerateRequestID()
}

// quietPaths are polled by orchestrators and scrapers and would drown the request log
var quietPaths = []string{"/healthz", "/readyz", "/metrics"}

func isQuiet(path string) bool {
	for _, p := range quietPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// redactHeaders copies h with credential headers masked
func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	for _, k := range []string{HeaderAPIKey, HeaderAuthorization} {
		if out.Get(k) != "" {
			out.Set(k, RedactedValue)
		}
	}
	return out
}

// loggingMiddleware tags the request context with a request id and logs
// the request on the way in and its status on the way out.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuiet(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		id := requestID(r)
		w.Header().Set(HeaderRequestID, id)
		ctx := logger.WithRequestID(r.Context(), id)
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())
		log.Debug(LogMsgRequestHeaders, "headers", redactHeaders(r.Header))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Vodeneev/hoopsedge/internal/pkg/health/handlers"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
)

// Deps are the collaborators exposed on the ops server. Nil fields disable their routes.
type Deps struct {
	Recommendations storage.RecommendationStore
	Metrics         *metrics.Recorder
	Checks          map[string]handlers.Check
	Location        *time.Location
}

// NewRouter builds the ops router: /ping, /health, /metrics and /recommendations.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/ping", handlers.HandlePing)
	r.Get("/health", handlers.NewHealthHandler(deps.Checks))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	if deps.Recommendations != nil {
		r.Get("/recommendations", handlers.NewRecommendationsHandler(deps.Recommendations, deps.Location))
	}
	return r
}

// Run serves handler on addr until ctx is done.
func Run(ctx context.Context, addr, service string, handler http.Handler, readHeaderTimeout time.Duration) {
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = 5 * time.Second
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()
}

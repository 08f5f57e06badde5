// Package http exposes the service over a JSON API: the per-user sheet
// registry resource and thin entity endpoints over the repositories. The
// upstream auth provider is a separate system; requests arrive with the
// caller's user id in a trusted reverse-proxy header.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"bizbook/internal/amqp"
	"bizbook/internal/cache"
	applog "bizbook/internal/log"
	"bizbook/internal/middleware/trace"
	"bizbook/internal/registry"
	"bizbook/internal/sheets"
	"bizbook/internal/worker"
)

// QueuePublisher is the optional queued-append pipeline. Nil means inline
// writes only.
type QueuePublisher interface {
	PublishRowAppend(ctx context.Context, msg *amqp.RowAppendMessage) error
}

type Server struct {
	http.Server

	registry   *registry.Service
	clients    worker.ClientFactory
	queue      QueuePublisher
	userHeader string

	listCache *cache.LRU[[]byte]
	cacheTTL  time.Duration

	logger      *applog.Logger
	rateLimiter *rateLimiter
	traceMW     *trace.Middleware

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer wires the API surface. clients must return a range client bound
// to a spreadsheet id; queue may be nil.
func NewServer(addr string, reg *registry.Service, clients worker.ClientFactory, queue QueuePublisher, userHeader string, cacheTTL time.Duration) *Server {
	s := &Server{
		registry:    reg,
		clients:     clients,
		queue:       queue,
		userHeader:  userHeader,
		listCache:   cache.NewLRU[[]byte](256, cacheTTL),
		cacheTTL:    cacheTTL,
		logger:      applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		traceMW:     trace.NewMiddleware(),
		startedAt:   time.Now(),
	}

	mux := http.NewServeMux()
	s.routes(mux)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        s.traceMW.Middleware(s.rateLimiter.Middleware(mux)),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/sheets", s.requireUser(s.handleSheetsList))
	mux.HandleFunc("POST /api/sheets", s.requireUser(s.handleSheetsAdd))
	mux.HandleFunc("PUT /api/sheets", s.requireUser(s.handleSheetsUpdate))
	mux.HandleFunc("DELETE /api/sheets", s.requireUser(s.handleSheetsRemove))

	mux.HandleFunc("GET /api/dashboard", s.requireUser(s.handleDashboard))

	for _, e := range entityHandlers {
		mux.HandleFunc("GET /api/"+e.name, s.requireUser(e.list(s)))
		mux.HandleFunc("POST /api/"+e.name, s.requireUser(e.add(s)))
		mux.HandleFunc("PATCH /api/"+e.name+"/{index}/"+e.patchField, s.requireUser(e.patch(s)))
		mux.HandleFunc("DELETE /api/"+e.name+"/{index}", s.requireUser(e.remove(s)))
	}
	mux.HandleFunc("PUT /api/inventory/{index}", s.requireUser(s.handleInventoryUpdate))
}

// requireUser rejects requests without the trusted user id header.
func (s *Server) requireUser(next func(w http.ResponseWriter, r *http.Request, userID string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(s.userHeader)
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r, userID)
	}
}

// activeClient resolves the caller's active spreadsheet to a bound range
// client. A disconnected user gets sheets.ErrNoActiveSheet.
func (s *Server) activeClient(ctx context.Context, userID string) (sheets.RangeClient, string, error) {
	sheetID, err := s.registry.GetActive(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if sheetID == "" {
		return nil, "", sheets.ErrNoActiveSheet
	}
	return s.clients(sheetID), sheetID, nil
}

// Shutdown stops background work and then shuts down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Shutdown()
	})
	return s.Server.Shutdown(ctx)
}

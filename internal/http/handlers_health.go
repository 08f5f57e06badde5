package http

import (
	"net/http"
	"time"

	"bizbook/internal/core"
	"bizbook/internal/erp"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startedAt).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// Readiness is the registry store answering; the spreadsheet backend is
	// checked lazily per request.
	if _, err := s.registry.List(r.Context(), "_readyz"); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Registry store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()
	client, _, err := s.activeClient(ctx, userID)
	if err != nil {
		s.respondDataError(w, err)
		return
	}

	repos := erp.NewRepos(client)
	sales, err := repos.Sales.LoadAll(ctx)
	if err != nil {
		s.respondDataError(w, err)
		return
	}
	items, err := repos.Inventory.LoadAll(ctx)
	if err != nil {
		s.respondDataError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, core.ComputeDashboardStats(time.Now(), sales, items))
}

package http

import (
	"errors"
	"net/http"

	applog "bizbook/internal/log"
	"bizbook/internal/registry"
)

// sheetsResponse is the registry resource body: the user's registered
// spreadsheets and the active pointer, null when disconnected.
type sheetsResponse struct {
	Sheets        []registry.Entry `json:"sheets"`
	ActiveSheetID *string          `json:"activeSheetId"`
}

func (s *Server) handleSheetsList(w http.ResponseWriter, r *http.Request, userID string) {
	ctx := r.Context()

	entries, err := s.registry.List(ctx, userID)
	if err != nil {
		s.logger.Error("Registry list failed", applog.FieldError, err.Error(), applog.FieldUserID, userID)
		writeError(w, http.StatusInternalServerError, "Failed to fetch sheets")
		return
	}
	active, err := s.registry.GetActive(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch sheets")
		return
	}

	resp := sheetsResponse{Sheets: entries}
	if active != "" {
		resp.ActiveSheetID = &active
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSheetsAdd(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		SpreadsheetID string `json:"spreadsheetId"`
		Tag           string `json:"tag"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SpreadsheetID == "" || req.Tag == "" {
		writeError(w, http.StatusBadRequest, "Missing spreadsheetId or tag")
		return
	}

	if err := s.registry.Add(r.Context(), userID, req.SpreadsheetID, req.Tag); err != nil {
		if errors.Is(err, registry.ErrBadInput) {
			writeError(w, http.StatusBadRequest, "Missing spreadsheetId or tag")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to add sheet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Sheet added successfully"})
}

func (s *Server) handleSheetsUpdate(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		SpreadsheetID string `json:"spreadsheetId"`
		Tag           string `json:"tag"`
		SetActive     bool   `json:"setActive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.SpreadsheetID == "" {
		writeError(w, http.StatusBadRequest, "Missing spreadsheetId")
		return
	}

	ctx := r.Context()
	if req.SetActive {
		if err := s.registry.SetActive(ctx, userID, req.SpreadsheetID); err != nil {
			if errors.Is(err, registry.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Unknown spreadsheetId")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to update sheet")
			return
		}
	}
	if req.Tag != "" {
		if err := s.registry.Rename(ctx, userID, req.SpreadsheetID, req.Tag); err != nil {
			if errors.Is(err, registry.ErrNotFound) {
				writeError(w, http.StatusBadRequest, "Unknown spreadsheetId")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to update sheet")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Sheet updated successfully"})
}

func (s *Server) handleSheetsRemove(w http.ResponseWriter, r *http.Request, userID string) {
	sheetID := r.URL.Query().Get("id")
	if sheetID == "" {
		writeError(w, http.StatusBadRequest, "Missing spreadsheetId")
		return
	}

	if err := s.registry.Remove(r.Context(), userID, sheetID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to remove sheet")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Sheet removed successfully"})
}

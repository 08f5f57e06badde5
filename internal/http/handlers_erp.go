package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bizbook/internal/amqp"
	"bizbook/internal/core"
	"bizbook/internal/erp"
	applog "bizbook/internal/log"
	"bizbook/internal/sheets"
	"bizbook/internal/token"
)

type handlerFunc = func(w http.ResponseWriter, r *http.Request, userID string)

// entityHandler binds one entity sheet to its route set. patchField names
// the PATCH sub-resource; status for most entities, stock for inventory.
type entityHandler struct {
	name       string
	patchField string
	list       func(*Server) handlerFunc
	add        func(*Server) handlerFunc
	patch      func(*Server) handlerFunc
	remove     func(*Server) handlerFunc
}

var entityHandlers = []entityHandler{
	{
		name:       "inventory",
		patchField: "stock",
		list: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				listEntities(s, w, r, userID, "inventory",
					func(ctx context.Context, rp *erp.Repos) ([]core.InventoryItem, error) {
						return rp.Inventory.LoadAll(ctx)
					})
			}
		},
		add: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				var item core.InventoryItem
				if err := decodeJSON(r, &item); err != nil {
					writeError(w, http.StatusBadRequest, "Invalid request body")
					return
				}
				fillDefaults(&item.ID, &item.Date)
				addEntity(s, w, r, userID, "inventory", item,
					func(i core.InventoryItem) ([]string, error) { return erp.InventoryRow(i), nil },
					func(ctx context.Context, rp *erp.Repos) error { return rp.Inventory.Add(ctx, item) })
			}
		},
		patch: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				s.handleStockUpdate(w, r, userID)
			}
		},
		remove: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				removeEntity(s, w, r, userID, "inventory",
					func(ctx context.Context, rp *erp.Repos, index int) error {
						return rp.Inventory.Delete(ctx, index)
					})
			}
		},
	},
	{
		name:       "sales",
		patchField: "status",
		list: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				listEntities(s, w, r, userID, "sales",
					func(ctx context.Context, rp *erp.Repos) ([]core.Sale, error) {
						return rp.Sales.LoadAll(ctx)
					})
			}
		},
		add: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				var sale core.Sale
				if err := decodeJSON(r, &sale); err != nil {
					writeError(w, http.StatusBadRequest, "Invalid request body")
					return
				}
				fillDefaults(&sale.ID, &sale.Date)
				if sale.Status == "" {
					sale.Status = core.StatusPending
				}
				addEntity(s, w, r, userID, "sales", sale,
					func(v core.Sale) ([]string, error) { return erp.SaleRow(v), nil },
					func(ctx context.Context, rp *erp.Repos) error { return rp.Sales.Add(ctx, sale) })
			}
		},
		patch: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				patchStatus(s, w, r, userID, "sales",
					func(ctx context.Context, rp *erp.Repos, index int, st core.Status) error {
						return rp.Sales.UpdateStatus(ctx, index, st)
					})
			}
		},
		remove: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				removeEntity(s, w, r, userID, "sales",
					func(ctx context.Context, rp *erp.Repos, index int) error {
						return rp.Sales.Delete(ctx, index)
					})
			}
		},
	},
	{
		name:       "purchases",
		patchField: "status",
		list: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				listEntities(s, w, r, userID, "purchases",
					func(ctx context.Context, rp *erp.Repos) ([]core.Purchase, error) {
						return rp.Purchases.LoadAll(ctx)
					})
			}
		},
		add: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				var p core.Purchase
				if err := decodeJSON(r, &p); err != nil {
					writeError(w, http.StatusBadRequest, "Invalid request body")
					return
				}
				fillDefaults(&p.ID, &p.Date)
				if p.Status == "" {
					p.Status = core.StatusPending
				}
				addEntity(s, w, r, userID, "purchases", p,
					func(v core.Purchase) ([]string, error) { return erp.PurchaseRow(v), nil },
					func(ctx context.Context, rp *erp.Repos) error { return rp.Purchases.Add(ctx, p) })
			}
		},
		patch: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				patchStatus(s, w, r, userID, "purchases",
					func(ctx context.Context, rp *erp.Repos, index int, st core.Status) error {
						return rp.Purchases.UpdateStatus(ctx, index, st)
					})
			}
		},
		remove: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				removeEntity(s, w, r, userID, "purchases",
					func(ctx context.Context, rp *erp.Repos, index int) error {
						return rp.Purchases.Delete(ctx, index)
					})
			}
		},
	},
	{
		name:       "invoices",
		patchField: "status",
		list: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				listEntities(s, w, r, userID, "invoices",
					func(ctx context.Context, rp *erp.Repos) ([]core.Invoice, error) {
						return rp.Invoices.LoadAll(ctx)
					})
			}
		},
		add: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				var inv core.Invoice
				if err := decodeJSON(r, &inv); err != nil {
					writeError(w, http.StatusBadRequest, "Invalid request body")
					return
				}
				fillDefaults(&inv.ID, &inv.Date)
				if inv.Status == "" {
					inv.Status = core.StatusPending
				}
				addEntity(s, w, r, userID, "invoices", inv,
					erp.InvoiceRow,
					func(ctx context.Context, rp *erp.Repos) error { return rp.Invoices.Add(ctx, inv) })
			}
		},
		patch: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				patchStatus(s, w, r, userID, "invoices",
					func(ctx context.Context, rp *erp.Repos, index int, st core.Status) error {
						return rp.Invoices.UpdateStatus(ctx, index, st)
					})
			}
		},
		remove: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				removeEntity(s, w, r, userID, "invoices",
					func(ctx context.Context, rp *erp.Repos, index int) error {
						return rp.Invoices.Delete(ctx, index)
					})
			}
		},
	},
	{
		name:       "bills",
		patchField: "status",
		list: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				listEntities(s, w, r, userID, "bills",
					func(ctx context.Context, rp *erp.Repos) ([]core.Bill, error) {
						return rp.Bills.LoadAll(ctx)
					})
			}
		},
		add: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				var b core.Bill
				if err := decodeJSON(r, &b); err != nil {
					writeError(w, http.StatusBadRequest, "Invalid request body")
					return
				}
				fillDefaults(&b.ID, &b.Date)
				if b.Status == "" {
					b.Status = core.StatusPending
				}
				addEntity(s, w, r, userID, "bills", b,
					func(v core.Bill) ([]string, error) { return erp.BillRow(v), nil },
					func(ctx context.Context, rp *erp.Repos) error { return rp.Bills.Add(ctx, b) })
			}
		},
		patch: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				patchStatus(s, w, r, userID, "bills",
					func(ctx context.Context, rp *erp.Repos, index int, st core.Status) error {
						return rp.Bills.UpdateStatus(ctx, index, st)
					})
			}
		},
		remove: func(s *Server) handlerFunc {
			return func(w http.ResponseWriter, r *http.Request, userID string) {
				removeEntity(s, w, r, userID, "bills",
					func(ctx context.Context, rp *erp.Repos, index int) error {
						return rp.Bills.Delete(ctx, index)
					})
			}
		},
	},
}

// fillDefaults assigns a generated id and today's date to records the client
// submitted without them.
func fillDefaults(id, date *string) {
	now := time.Now()
	if *id == "" {
		*id = core.NewID(now)
	}
	if *date == "" {
		*date = now.Format("2006-01-02")
	}
}

func listEntities[T any](s *Server, w http.ResponseWriter, r *http.Request, userID, entity string, load func(context.Context, *erp.Repos) ([]T, error)) {
	ctx := r.Context()
	client, sheetID, err := s.activeClient(ctx, userID)
	if err != nil {
		s.respondDataError(w, err)
		return
	}

	key := entity + "|" + sheetID
	if body, ok := s.listCache.Get(key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	items, err := load(ctx, erp.NewRepos(client))
	if err != nil {
		s.respondDataError(w, err)
		return
	}
	body, err := json.Marshal(items)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
	body = append(body, '\n')
	s.listCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func addEntity[T interface{ Validate() error }](s *Server, w http.ResponseWriter, r *http.Request, userID, entity string, item T, encode func(T) ([]string, error), add func(context.Context, *erp.Repos) error) {
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	client, sheetID, err := s.activeClient(ctx, userID)
	if err != nil {
		s.respondDataError(w, err)
		return
	}

	if r.URL.Query().Get("queued") == "1" && s.queue != nil {
		row, err := encode(item)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		msg := amqp.NewRowAppendMessage(entity, userID, sheetID, row)
		if err := s.queue.PublishRowAppend(ctx, msg); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to queue write")
			return
		}
		s.listCache.Delete(entity + "|" + sheetID)
		writeJSON(w, http.StatusAccepted, map[string]any{"success": true, "queued": true})
		return
	}

	if err := add(ctx, erp.NewRepos(client)); err != nil {
		s.respondDataError(w, err)
		return
	}
	s.listCache.Delete(entity + "|" + sheetID)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}

func patchStatus(s *Server, w http.ResponseWriter, r *http.Request, userID, entity string, update func(context.Context, *erp.Repos, int, core.Status) error) {
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Status core.Status `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Status.Known() {
		writeError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	ctx := r.Context()
	client, sheetID, err := s.activeClient(ctx, userID)
	if err != nil {
		s.respondDataError(w, err)
		return
	}
	if err := update(ctx, erp.NewRepos(client), index, req.Status); err != nil {
		s.respondDataError(w, err)
		return
	}
	s.listCache.Delete(entity + "|" + sheetID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func removeEntity(s *Server, w http.ResponseWriter, r *http.Request, userID, entity string, del func(context.Context, *erp.Repos, int) error) {
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	client, sheetID, err := s.activeClient(ctx, userID)
	if err != nil {
		s.respondDataError(w, err)
		return
	}
	if err := del(ctx, erp.NewRepos(client), index); err != nil {
		s.respondDataError(w, err)
		return
	}
	s.listCache.Delete(entity + "|" + sheetID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleStockUpdate adjusts a single inventory row's stock column.
func (s *Server) handleStockUpdate(w http.ResponseWriter, r *http.Request, userID string) {
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}
	var req struct {
		Stock int `json:"stock"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "Negative stock")
		return
	}

	ctx := r.Context()
	client, sheetID, err := s.activeClient(ctx, userID)
	if err != nil {
		s.respondDataError(w, err)
		return
	}
	if err := erp.NewRepos(client).Inventory.UpdateStock(ctx, index, req.Stock); err != nil {
		s.respondDataError(w, err)
		return
	}
	s.listCache.Delete("inventory|" + sheetID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleInventoryUpdate replaces a whole inventory row.
func (s *Server) handleInventoryUpdate(w http.ResponseWriter, r *http.Request, userID string) {
	index, ok := rowIndex(w, r)
	if !ok {
		return
	}
	var item core.InventoryItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := item.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	client, sheetID, err := s.activeClient(ctx, userID)
	if err != nil {
		s.respondDataError(w, err)
		return
	}
	if err := erp.NewRepos(client).Inventory.Update(ctx, index, item); err != nil {
		s.respondDataError(w, err)
		return
	}
	s.listCache.Delete("inventory|" + sheetID)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func rowIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "Invalid row index")
		return 0, false
	}
	return index, true
}

// respondDataError maps repository and auth failures onto the API's status
// codes.
func (s *Server) respondDataError(w http.ResponseWriter, err error) {
	var authErr *token.AuthError
	switch {
	case errors.Is(err, sheets.ErrNoActiveSheet):
		writeError(w, http.StatusBadRequest, "No active spreadsheet")
	case errors.Is(err, erp.ErrRowNotFound):
		writeError(w, http.StatusNotFound, "Row not found")
	case errors.As(err, &authErr):
		s.logger.Warn("Google authorization failed",
			applog.FieldError, authErr.Code)
		writeError(w, http.StatusUnauthorized, "Google authorization failed")
	default:
		s.logger.Error("Spreadsheet operation failed",
			applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Spreadsheet operation failed")
	}
}

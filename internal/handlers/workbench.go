package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/crmforge/orderbench/internal/render"
	"github.com/crmforge/orderbench/internal/workbench"
)

// listOrders returns the recent orders for the selector
func (r *Router) listOrders(w http.ResponseWriter, req *http.Request) {
	orders, err := r.source.RecentOrders(req.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load orders")
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// selectOrder switches the workbench to another order. An empty id
// clears the selection.
func (r *Router) selectOrder(w http.ResponseWriter, req *http.Request) {
	var body struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.store.Select(req.Context(), body.OrderID); err != nil {
		respondWorkbenchError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, r.store.Snapshot())
}

// getRows returns the current row set and aggregate flags
func (r *Router) getRows(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.store.Snapshot())
}

// setLocation buffers a warehouse-location draft for a row
func (r *Router) setLocation(w http.ResponseWriter, req *http.Request) {
	rowID := mux.Vars(req)["id"]
	var body struct {
		Location string `json:"location"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := r.store.SetDraftLocation(rowID, body.Location); err != nil {
		respondWorkbenchError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "draft saved"})
}

// generateRow runs the single-row generation workflow
func (r *Router) generateRow(w http.ResponseWriter, req *http.Request) {
	rowID := mux.Vars(req)["id"]
	opts := renderOptions(req)

	outcome, err := r.flow.Generate(req.Context(), rowID, opts)
	if err != nil {
		respondWorkbenchError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, outcome)
}

// generateBatch renders one barcode per item of a tier's collection
func (r *Router) generateBatch(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Tier string `json:"tier"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result, err := r.flow.GenerateBatch(req.Context(), workbench.Tier(body.Tier), renderOptions(req))
	if err != nil {
		respondWorkbenchError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// refresh re-fetches the order list and, when an order is selected,
// reloads its rows from the platform.
func (r *Router) refresh(w http.ResponseWriter, req *http.Request) {
	orders, err := r.source.RecentOrders(req.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "Failed to load orders")
		return
	}
	if r.store.OrderID() != "" {
		if err := r.store.Reload(req.Context()); err != nil {
			respondWorkbenchError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"orders":    orders,
		"workbench": r.store.Snapshot(),
	})
}

// saveDrafts persists all pending location edits
func (r *Router) saveDrafts(w http.ResponseWriter, req *http.Request) {
	report, err := r.store.SaveDrafts(req.Context())
	if err != nil {
		// Partial failure still carries a report worth returning
		var pe *workbench.PersistError
		if errors.As(err, &pe) {
			respondJSON(w, http.StatusMultiStatus, report)
			return
		}
		respondWorkbenchError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// getSurface serves the last PNG rendered onto a surface. Batch
// renders are display-only, so this is how their output is viewed.
func (r *Router) getSurface(w http.ResponseWriter, req *http.Request) {
	key := mux.Vars(req)["key"]
	surface, ok := r.resolver.Lookup(key)
	if !ok {
		respondError(w, http.StatusNotFound, "No such surface")
		return
	}
	img := surface.Image()
	if img == nil {
		respondError(w, http.StatusNotFound, "Nothing rendered on this surface yet")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}

// listRecords returns the recent generation audit trail
func (r *Router) listRecords(w http.ResponseWriter, req *http.Request) {
	records, err := r.recorder.Recent(req.Context(), 50)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch records")
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// renderOptions reads symbology overrides from the query string
func renderOptions(req *http.Request) render.Options {
	opts := render.DefaultOptions()
	if f := req.URL.Query().Get("format"); f != "" {
		opts.Symbology = f
	}
	return opts
}

// respondWorkbenchError maps workbench error kinds onto HTTP statuses
func respondWorkbenchError(w http.ResponseWriter, err error) {
	var ve *workbench.ValidationError
	var fe *workbench.FetchError
	var pe *workbench.PersistError
	var le *render.LoadError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &fe):
		respondError(w, http.StatusBadGateway, fe.Error())
	case errors.As(err, &pe):
		respondError(w, http.StatusBadGateway, pe.Error())
	case errors.As(err, &le):
		respondError(w, http.StatusServiceUnavailable, le.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

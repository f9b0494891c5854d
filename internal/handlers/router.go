package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/crmforge/orderbench/internal/buildinfo"
	"github.com/crmforge/orderbench/internal/config"
	"github.com/crmforge/orderbench/internal/database"
	"github.com/crmforge/orderbench/internal/middleware"
	"github.com/crmforge/orderbench/internal/render"
	"github.com/crmforge/orderbench/internal/services/audit"
	"github.com/crmforge/orderbench/internal/websocket"
	"github.com/crmforge/orderbench/internal/workbench"
)

// Router wraps the mux router and the workbench wiring
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	source   workbench.Source
	store    *workbench.Store
	flow     *workbench.Workflow
	resolver *render.MemoryResolver
	recorder *audit.Recorder
	hub      *websocket.Hub
}

// Deps collects everything the router serves
type Deps struct {
	DB       *database.DB
	Config   *config.Config
	Source   workbench.Source
	Store    *workbench.Store
	Flow     *workbench.Workflow
	Resolver *render.MemoryResolver
	Recorder *audit.Recorder
	Hub      *websocket.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(deps Deps) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       deps.DB,
		cfg:      deps.Config,
		source:   deps.Source,
		store:    deps.Store,
		flow:     deps.Flow,
		resolver: deps.Resolver,
		recorder: deps.Recorder,
		hub:      deps.Hub,
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(r.cfg.JWTSecret))

	api.HandleFunc("/orders", r.listOrders).Methods("GET")
	api.HandleFunc("/orders/{id}/invoice", r.orderInvoice).Methods("GET")

	wb := api.PathPrefix("/workbench").Subrouter()
	wb.HandleFunc("/order", r.selectOrder).Methods("POST")
	wb.HandleFunc("/rows", r.getRows).Methods("GET")
	wb.HandleFunc("/rows/{id}/location", r.setLocation).Methods("PUT")
	wb.HandleFunc("/rows/{id}/barcode", r.generateRow).Methods("POST")
	wb.HandleFunc("/barcodes", r.generateBatch).Methods("POST")
	wb.HandleFunc("/drafts/save", r.saveDrafts).Methods("POST")
	wb.HandleFunc("/refresh", r.refresh).Methods("POST")
	wb.HandleFunc("/surfaces/{key}", r.getSurface).Methods("GET")
	wb.HandleFunc("/sheet", r.printSheet).Methods("GET")

	api.HandleFunc("/records", r.listRecords).Methods("GET")

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(r.hub, w, req)
	})

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Describe(),
		"started": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

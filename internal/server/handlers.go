package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"ordersight/internal/clients/dql"
	"ordersight/internal/config"
	"ordersight/internal/db"
	"ordersight/internal/models"
	"ordersight/internal/orchestrator"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds the server dependencies
type Handler struct {
	cfg          *config.Config
	orchestrator *orchestrator.Orchestrator
	store        *db.DB
	logger       *slog.Logger
}

// NewHandler creates a new handler
func NewHandler(cfg *config.Config, orch *orchestrator.Orchestrator, store *db.DB, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		cfg:          cfg,
		orchestrator: orch,
		store:        store,
		logger:       logger,
	}
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/orders", h.HandleOrders)
		r.Get("/orders/statistics", h.HandleOrderStatistics)
		r.Get("/orders/{orderID}", h.HandleOrderDetail)
		r.Get("/geo/locations", h.HandleLocations)
		r.Get("/geo/locations/orders", h.HandleLocationOrders)
		r.Get("/traces/{traceID}/insights", h.HandleTraceInsights)
		r.Get("/views", h.HandleListViews)
		r.Post("/views", h.HandleSaveView)
		r.Delete("/views/{viewID}", h.HandleDeleteView)
	})
}

// writeJSON serializes a response payload.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps an error onto a status code and a JSON error body. Query
// engine failures are surfaced as 502 so callers can tell a failed query
// apart from a successfully empty result.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, dql.ErrQueryFailed) {
		status = http.StatusBadGateway
	}
	h.logger.Error("Request failed", "error", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// orderFiltersFromRequest extracts order filter state from query parameters.
func orderFiltersFromRequest(r *http.Request) models.OrderFilters {
	q := r.URL.Query()
	return models.OrderFilters{
		Timeframe: models.Timeframe{
			From: q.Get("from"),
			To:   q.Get("to"),
		},
		Status:     q.Get("status"),
		SearchTerm: q.Get("search"),
	}
}

// geoFiltersFromRequest extracts geo filter state from query parameters.
// A missing or unparsable limit is left at 0 for the orchestrator to default.
func geoFiltersFromRequest(r *http.Request) models.GeoFilters {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.GeoFilters{
		Timeframe: models.Timeframe{
			From: q.Get("from"),
			To:   q.Get("to"),
		},
		ViewMode: q.Get("view"),
		Metric:   q.Get("metric"),
		Limit:    limit,
	}
}

// HandleOrders returns the order list for the requested filters.
func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	f := orderFiltersFromRequest(r)
	if f.Status != "" && f.Status != models.StatusAll &&
		f.Status != models.StatusSuccess && f.Status != models.StatusFailure {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status filter"})
		return
	}

	list, err := h.orchestrator.Orders(r.Context(), f)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

// HandleOrderDetail returns one order with its parsed items.
func (h *Handler) HandleOrderDetail(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing order id"})
		return
	}

	detail, err := h.orchestrator.OrderDetail(r.Context(), orderID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if detail == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// HandleOrderStatistics returns the checkout outcome aggregate.
func (h *Handler) HandleOrderStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orchestrator.Statistics(r.Context(), orderFiltersFromRequest(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleLocations returns orders aggregated by shipping location.
func (h *Handler) HandleLocations(w http.ResponseWriter, r *http.Request) {
	result, err := h.orchestrator.Locations(r.Context(), geoFiltersFromRequest(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleLocationOrders returns the order drill-down for one location.
func (h *Handler) HandleLocationOrders(w http.ResponseWriter, r *http.Request) {
	country := r.URL.Query().Get("country")
	if country == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing country"})
		return
	}
	loc := models.LocationData{
		Country: country,
		City:    r.URL.Query().Get("city"),
	}

	list, err := h.orchestrator.LocationOrders(r.Context(), loc, geoFiltersFromRequest(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": list})
}

// HandleTraceInsights returns the combined trace performance view. The
// insights field is null when the whole-trace aggregate had no data.
func (h *Handler) HandleTraceInsights(w http.ResponseWriter, r *http.Request) {
	traceID := chi.URLParam(r, "traceID")
	if traceID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing trace id"})
		return
	}

	insights, err := h.orchestrator.TraceInsights(r.Context(), traceID, r.URL.Query().Get("timestamp"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

// HandleListViews returns all saved filter presets.
func (h *Handler) HandleListViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.store.ListViews()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if views == nil {
		views = []db.SavedView{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"views": views})
}

// HandleSaveView stores a named filter preset.
func (h *Handler) HandleSaveView(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	defer r.Body.Close()

	var view db.SavedView
	if err := json.Unmarshal(body, &view); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid view payload"})
		return
	}
	if view.Name == "" || view.Page == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "view name and page are required"})
		return
	}

	saved, err := h.store.SaveView(view)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// HandleDeleteView removes a saved filter preset.
func (h *Handler) HandleDeleteView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "viewID")
	if err := h.store.DeleteView(id); err != nil {
		if errors.Is(err, db.ErrViewNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "view not found"})
			return
		}
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHealth returns health status
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleReady returns readiness status
func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

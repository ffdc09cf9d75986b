// Package orchestrator coordinates query execution against the analytics
// engine and assembles the dashboard view-models.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"ordersight/internal/cache"
	"ordersight/internal/clients/dql"
	"ordersight/internal/config"
	"ordersight/internal/db"
	"ordersight/internal/geo"
	"ordersight/internal/models"
	"ordersight/internal/orders"
	"ordersight/internal/query"
	"ordersight/internal/traces"
)

// QueryExecutor is the single interface to the external query engine.
type QueryExecutor interface {
	Execute(ctx context.Context, query string) ([]dql.Row, error)
}

// Orchestrator coordinates query execution, caching and result shaping.
type Orchestrator struct {
	executor QueryExecutor
	cache    *cache.Cache
	store    *db.DB
	resolver *geo.Resolver
	cfg      *config.Config
	logger   *slog.Logger
}

// New creates a new orchestrator. cache and store may be nil to disable
// result caching and query auditing.
func New(executor QueryExecutor, c *cache.Cache, store *db.DB, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		executor: executor,
		cache:    c,
		store:    store,
		resolver: newResolver(cfg, logger),
		cfg:      cfg,
		logger:   logger,
	}
}

// newResolver builds the coordinate resolver, loading override tables from
// the configured JSON file when one is set. A load failure keeps the
// built-in tables.
func newResolver(cfg *config.Config, logger *slog.Logger) *geo.Resolver {
	if cfg.Geo.TablesPath == "" {
		return geo.NewResolver(logger)
	}
	cities, countries, err := geo.LoadTables(cfg.Geo.TablesPath)
	if err != nil {
		logger.Warn("Failed to load coordinate tables, using built-ins",
			"path", cfg.Geo.TablesPath, "error", err)
		return geo.NewResolver(logger)
	}
	return geo.NewResolverWithTables(cities, countries, logger)
}

// runQuery executes one pipeline query with cache-aside and audit logging.
func (o *Orchestrator) runQuery(ctx context.Context, q string) ([]dql.Row, error) {
	if payload, ok, err := o.cache.Get(ctx, q); err != nil {
		o.logger.Warn("Cache lookup failed", "error", err)
	} else if ok {
		var rows []dql.Row
		if err := json.Unmarshal(payload, &rows); err == nil {
			return rows, nil
		}
		o.logger.Warn("Discarding undecodable cache entry", "error", err)
	}

	start := time.Now()
	rows, err := o.executor.Execute(ctx, q)
	elapsed := time.Since(start)

	if auditErr := o.store.RecordQuery(q, elapsed, len(rows), err); auditErr != nil {
		o.logger.Warn("Failed to record query audit entry", "error", auditErr)
	}
	if err != nil {
		return nil, err
	}

	if payload, merr := json.Marshal(rows); merr == nil {
		if cerr := o.cache.Set(ctx, q, payload); cerr != nil {
			o.logger.Warn("Cache store failed", "error", cerr)
		}
	}
	return rows, nil
}

// normalizeOrderFilters fills empty timeframe endpoints with the configured
// dashboard defaults.
func (o *Orchestrator) normalizeOrderFilters(f models.OrderFilters) models.OrderFilters {
	if f.Timeframe.From == "" {
		f.Timeframe.From = o.cfg.Dashboard.OrdersFrom()
	}
	if f.Timeframe.To == "" {
		f.Timeframe.To = "now"
	}
	if f.Status == "" {
		f.Status = models.StatusAll
	}
	return f
}

// defaultTopLocations is the ranked list length when the caller sends none.
const defaultTopLocations = 10

func (o *Orchestrator) normalizeGeoFilters(f models.GeoFilters) models.GeoFilters {
	if f.Timeframe.From == "" {
		f.Timeframe.From = o.cfg.Dashboard.GeoFrom()
	}
	if f.Timeframe.To == "" {
		f.Timeframe.To = "now"
	}
	if f.ViewMode == "" {
		f.ViewMode = models.ViewModeCountry
	}
	if f.Metric == "" {
		f.Metric = models.MetricOrders
	}
	if f.Limit <= 0 {
		f.Limit = defaultTopLocations
	}
	return f
}

// Orders fetches and parses the order list for the given filters.
func (o *Orchestrator) Orders(ctx context.Context, f models.OrderFilters) ([]models.Order, error) {
	rows, err := o.runQuery(ctx, query.Orders(o.normalizeOrderFilters(f)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return orders.FromRows(rows), nil
}

// OrderDetail fetches one order with its parsed items. Session-surrogate
// identifiers route the lookup by session instead of order id. A missing
// order yields (nil, nil).
func (o *Orchestrator) OrderDetail(ctx context.Context, orderID string) (*models.OrderDetail, error) {
	q := query.OrderDetail(orderID)
	if sessionID, ok := models.SessionFromSurrogate(orderID); ok {
		q = query.OrderBySession(sessionID)
	}

	rows, err := o.runQuery(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order detail: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	order := orders.FromRow(rows[0])
	return &models.OrderDetail{
		Order:          order,
		Items:          orders.ParseItems(order.ItemsRaw),
		TraceViewerURL: o.traceViewerURL(order.TraceID),
	}, nil
}

// Statistics fetches the checkout outcome aggregate for the timeframe.
func (o *Orchestrator) Statistics(ctx context.Context, f models.OrderFilters) (models.OrderStatistics, error) {
	rows, err := o.runQuery(ctx, query.Statistics(o.normalizeOrderFilters(f)))
	if err != nil {
		return models.OrderStatistics{}, fmt.Errorf("failed to fetch statistics: %w", err)
	}
	return orders.StatisticsFromRows(rows), nil
}

// LocationsResult is the geo page payload: the per-location aggregates, the
// ranking by the requested metric, and their summary statistics.
type LocationsResult struct {
	Locations    []models.LocationData `json:"locations"`
	TopLocations []models.LocationData `json:"topLocations"`
	Statistics   models.GeoStatistics  `json:"statistics"`
}

// Locations fetches successful orders aggregated by shipping location.
func (o *Orchestrator) Locations(ctx context.Context, f models.GeoFilters) (*LocationsResult, error) {
	f = o.normalizeGeoFilters(f)
	rows, err := o.runQuery(ctx, query.Locations(f))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}
	locations := o.resolver.FormatLocations(rows)
	return &LocationsResult{
		Locations:    locations,
		TopLocations: geo.TopLocations(locations, f.Metric, f.Limit),
		Statistics:   geo.Statistics(locations),
	}, nil
}

// LocationOrders fetches the drill-down order list for one location.
func (o *Orchestrator) LocationOrders(ctx context.Context, loc models.LocationData, f models.GeoFilters) ([]models.LocationOrder, error) {
	rows, err := o.runQuery(ctx, query.LocationOrders(loc, o.normalizeGeoFilters(f)))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location orders: %w", err)
	}
	return geo.LocationOrdersFromRows(rows), nil
}

// TraceInsights issues the four trace aggregate queries concurrently and
// combines them. A failed or empty totals query makes the whole insight
// unavailable; failures of the other three degrade to empty data sets.
func (o *Orchestrator) TraceInsights(ctx context.Context, traceID, timestamp string) (*models.TraceInsights, error) {
	type result struct {
		name string
		rows []dql.Row
		err  error
	}

	queries := map[string]string{
		"totals":   query.TraceTotals(traceID, timestamp),
		"services": query.ServiceBreakdown(traceID, timestamp),
		"database": query.DatabaseOperations(traceID, timestamp),
		"errors":   query.TraceErrors(traceID, timestamp),
	}

	resultCh := make(chan result, len(queries))
	for name, q := range queries {
		go func(name, q string) {
			rows, err := o.runQuery(ctx, q)
			resultCh <- result{name: name, rows: rows, err: err}
		}(name, q)
	}

	collected := make(map[string][]dql.Row, len(queries))
	var totalsErr error
	for i := 0; i < len(queries); i++ {
		r := <-resultCh
		if r.err != nil {
			if r.name == "totals" {
				totalsErr = r.err
				continue
			}
			o.logger.Warn("Trace sub-query failed, continuing with partial data",
				"query", r.name, "trace_id", traceID, "error", r.err)
			continue
		}
		collected[r.name] = r.rows
	}

	if totalsErr != nil {
		return nil, fmt.Errorf("failed to fetch trace totals: %w", totalsErr)
	}

	return traces.BuildInsights(collected["totals"], collected["services"],
		collected["database"], collected["errors"]), nil
}

// traceViewerURL builds the external trace viewer link for a trace id.
// Returns "" when no viewer base URL is configured or the trace id is empty.
func (o *Orchestrator) traceViewerURL(traceID string) string {
	base := o.cfg.Dashboard.TraceViewerBaseURL
	if base == "" || traceID == "" {
		return ""
	}
	return fmt.Sprintf("%s/explorer?traceId=%s", base, url.QueryEscape(traceID))
}

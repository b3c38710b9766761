package httpserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/marketpulse/campaign-insights/internal/analytics"
	"github.com/marketpulse/campaign-insights/internal/config"
	"github.com/marketpulse/campaign-insights/internal/dashboard"
	"github.com/marketpulse/campaign-insights/internal/metrics"
	"github.com/marketpulse/campaign-insights/internal/middleware"
	"go.uber.org/zap"
)

// Dependencies holds all external dependencies for the server.
type Dependencies struct {
	Service *dashboard.Service
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Server exposes the dashboard aggregates over HTTP.
type Server struct {
	service *dashboard.Service
	logger  *zap.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

// NewServer constructs a new http.Handler with all routes registered
// and the middleware chain applied.
func NewServer(deps *Dependencies) http.Handler {
	s := &Server{
		service: deps.Service,
		logger:  deps.Logger,
		config:  deps.Config,
		metrics: deps.Metrics,
	}

	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", s.handleHealth)

	// Prometheus metrics
	if deps.Config.Metrics.Enabled {
		mux.Handle(deps.Config.Metrics.Path, metrics.Handler())
	}

	// Dataset metadata
	mux.HandleFunc("/api/dataset", s.handleDataset)
	mux.HandleFunc("/api/filters", s.handleFilters)

	// Aggregates
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/kpis", s.handleKPIs)
	mux.HandleFunc("/api/funnel", s.handleFunnel)
	mux.HandleFunc("/api/timeseries", s.handleTimeSeries)
	mux.HandleFunc("/api/campaigns", s.handleCampaigns)
	mux.HandleFunc("/api/campaigns/highlights", s.handleHighlights)
	mux.HandleFunc("/api/locations", s.handleLocations)

	// Middleware chain: recovery wraps everything, logging sees the
	// final status, rate limiting runs closest to the handlers.
	recovery := middleware.NewRecoveryMiddleware(deps.Logger)
	logging := middleware.NewLoggingMiddleware(deps.Logger, deps.Metrics)
	rateLimit := middleware.NewRateLimitMiddleware(deps.Config.RateLimit, deps.Logger, deps.Metrics)

	return recovery.Handler(logging.Handler(rateLimit.Handler(mux)))
}

// ---- Health Check ----

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// ---- Dataset Metadata ----

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, s.service.Info())
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, s.service.Domains())
}

// ---- Aggregates ----

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	d, err := s.service.Dashboard(r.Context(), parseSelection(r.URL.Query()))
	if err != nil {
		s.logger.Error("failed to build dashboard", zap.Error(err))
		s.errorResponse(w, "failed to build dashboard", http.StatusInternalServerError)
		return
	}
	s.jsonResponse(w, d)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, s.service.KPIs(parseSelection(r.URL.Query())))
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, s.service.Funnel(parseSelection(r.URL.Query())))
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, s.service.TimeSeries(parseSelection(r.URL.Query())))
}

func (s *Server) handleCampaigns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.jsonResponse(w, s.service.Campaigns(parseSelection(r.URL.Query())))
}

func (s *Server) handleHighlights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	metric := analytics.HighlightMetric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = analytics.MetricCTRPct
	}

	points, err := s.service.Highlights(parseSelection(r.URL.Query()), metric)
	if err != nil {
		s.errorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.jsonResponse(w, points)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.errorResponse(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topN := 0
	if topStr := r.URL.Query().Get("top"); topStr != "" {
		n, err := strconv.Atoi(topStr)
		if err != nil || n <= 0 {
			s.errorResponse(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		topN = n
	}

	s.jsonResponse(w, s.service.Locations(parseSelection(r.URL.Query()), topN))
}

// ---- Filter parsing ----

// parseSelection reads the three dimension parameters. An absent
// parameter leaves the dimension unconstrained; a present parameter
// with no usable values (e.g. "campaign_id=") is an explicit empty
// selection and matches nothing.
func parseSelection(q url.Values) dashboard.FilterSelection {
	return dashboard.FilterSelection{
		CampaignIDs: parseDimension(q, "campaign_id"),
		DeviceTypes: parseDimension(q, "device_type"),
		Locations:   parseDimension(q, "location"),
	}
}

func parseDimension(q url.Values, key string) []string {
	raw, ok := q[key]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

// ---- Response helpers ----

func (s *Server) jsonResponse(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

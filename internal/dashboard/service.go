package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/marketpulse/campaign-insights/internal/analytics"
	"github.com/marketpulse/campaign-insights/internal/dataset"
	"github.com/marketpulse/campaign-insights/internal/metrics"
	"github.com/marketpulse/campaign-insights/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Service answers dashboard queries over one loaded RowStore. All
// aggregation is delegated to the pure functions in the analytics
// package; the service owns filter defaulting and the optional Redis
// result cache.
type Service struct {
	store        *dataset.RowStore
	redis        *redis.Client
	cacheTTL     time.Duration
	topLocations int
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewService constructs a dashboard service. redis and m may be nil;
// a nil redis client disables the result cache.
func NewService(store *dataset.RowStore, redisClient *redis.Client, cacheTTL time.Duration, topLocations int, logger *zap.Logger, m *metrics.Metrics) *Service {
	if topLocations <= 0 {
		topLocations = analytics.DefaultTopLocations
	}
	return &Service{
		store:        store,
		redis:        redisClient,
		cacheTTL:     cacheTTL,
		topLocations: topLocations,
		logger:       logger,
		metrics:      m,
	}
}

// FilterSelection is raw filter input before defaulting. A nil slice
// leaves the dimension unconstrained (full domain); an empty non-nil
// slice selects nothing.
type FilterSelection struct {
	CampaignIDs []string
	DeviceTypes []string
	Locations   []string
}

// DatasetInfo describes the loaded snapshot.
type DatasetInfo struct {
	LoadID   string    `json:"load_id"`
	Source   string    `json:"source"`
	Rows     int       `json:"rows"`
	LoadedAt time.Time `json:"loaded_at"`
}

// FilterDomains lists the distinct values per dimension, the defaults
// a UI would preselect.
type FilterDomains struct {
	CampaignIDs []string `json:"campaign_ids"`
	DeviceTypes []string `json:"device_types"`
	Locations   []string `json:"locations"`
}

// Dashboard is the full aggregate document for one filtered view.
type Dashboard struct {
	LoadID       string                  `json:"load_id"`
	Filter       analytics.Filter        `json:"filter"`
	FilteredRows int                     `json:"filtered_rows"`
	KPIs         analytics.KpiSet        `json:"kpis"`
	Funnel       []analytics.FunnelStage `json:"funnel"`
	Daily        []analytics.DailyPoint  `json:"daily_purchases"`
	Campaigns    []analytics.CampaignRow `json:"campaigns"`
	TopLocations []analytics.LocationRow `json:"top_locations"`
}

// Info returns metadata about the loaded dataset.
func (s *Service) Info() DatasetInfo {
	return DatasetInfo{
		LoadID:   s.store.LoadID().String(),
		Source:   s.store.Source(),
		Rows:     s.store.Len(),
		LoadedAt: s.store.LoadedAt(),
	}
}

// Domains returns the distinct filter values present in the dataset.
func (s *Service) Domains() FilterDomains {
	return FilterDomains{
		CampaignIDs: s.store.Campaigns(),
		DeviceTypes: s.store.DeviceTypes(),
		Locations:   s.store.Locations(),
	}
}

// resolve defaults unconstrained dimensions to the full domain and
// returns the explicit filter together with its row subset.
func (s *Service) resolve(sel FilterSelection) (analytics.Filter, []models.Event) {
	f := analytics.Filter{
		CampaignIDs: sel.CampaignIDs,
		DeviceTypes: sel.DeviceTypes,
		Locations:   sel.Locations,
	}
	if f.CampaignIDs == nil {
		f.CampaignIDs = s.store.Campaigns()
	}
	if f.DeviceTypes == nil {
		f.DeviceTypes = s.store.DeviceTypes()
	}
	if f.Locations == nil {
		f.Locations = s.store.Locations()
	}
	return f, analytics.ApplyFilter(s.store.Rows(), f)
}

// KPIs computes the headline metrics for the selection.
func (s *Service) KPIs(sel FilterSelection) analytics.KpiSet {
	_, rows := s.resolve(sel)
	return analytics.ComputeKPIs(rows)
}

// Funnel computes the stage counts for the selection.
func (s *Service) Funnel(sel FilterSelection) []analytics.FunnelStage {
	_, rows := s.resolve(sel)
	return analytics.ComputeFunnel(rows)
}

// TimeSeries computes daily purchase counts for the selection.
func (s *Service) TimeSeries(sel FilterSelection) []analytics.DailyPoint {
	_, rows := s.resolve(sel)
	return analytics.DailyPurchases(rows)
}

// Campaigns computes the per-campaign rollup for the selection.
func (s *Service) Campaigns(sel FilterSelection) []analytics.CampaignRow {
	_, rows := s.resolve(sel)
	return analytics.CampaignRollup(rows)
}

// Locations computes the location ranking for the selection. topN <= 0
// uses the configured default.
func (s *Service) Locations(sel FilterSelection, topN int) []analytics.LocationRow {
	if topN <= 0 {
		topN = s.topLocations
	}
	_, rows := s.resolve(sel)
	return analytics.LocationRollup(rows, topN)
}

// Highlights shapes the campaign rollup for a ranking chart over the
// chosen metric.
func (s *Service) Highlights(sel FilterSelection, metric analytics.HighlightMetric) ([]analytics.HighlightPoint, error) {
	return analytics.HighlightSeries(s.Campaigns(sel), metric)
}

// Dashboard computes every aggregate over one filtered subset. Results
// are cached in Redis (when configured) keyed by load id and filter,
// so a repeated view of the same unfiltered or filtered state is
// served without recomputation. Cache failures fall back to computing.
func (s *Service) Dashboard(ctx context.Context, sel FilterSelection) (*Dashboard, error) {
	f, rows := s.resolve(sel)
	key := s.cacheKey(f)

	if cached := s.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	d := &Dashboard{
		LoadID:       s.store.LoadID().String(),
		Filter:       f,
		FilteredRows: len(rows),
		KPIs:         analytics.ComputeKPIs(rows),
		Funnel:       analytics.ComputeFunnel(rows),
		Daily:        analytics.DailyPurchases(rows),
		Campaigns:    analytics.CampaignRollup(rows),
		TopLocations: analytics.LocationRollup(rows, s.topLocations),
	}

	s.cacheSet(ctx, key, d)
	return d, nil
}

// cacheKey derives a stable key from the load id and the canonical
// filter. Value order within a dimension does not affect the key.
func (s *Service) cacheKey(f analytics.Filter) string {
	h := sha256.New()
	for _, dim := range [][]string{f.CampaignIDs, f.DeviceTypes, f.Locations} {
		sorted := append([]string(nil), dim...)
		sort.Strings(sorted)
		h.Write([]byte(strings.Join(sorted, "\x1f")))
		h.Write([]byte{0x1e})
	}
	return "dashboard:" + s.store.LoadID().String() + ":" + hex.EncodeToString(h.Sum(nil))
}

func (s *Service) cacheGet(ctx context.Context, key string) *Dashboard {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("result cache get failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordResultCache(false)
		}
		return nil
	}

	var d Dashboard
	if err := json.Unmarshal(payload, &d); err != nil {
		s.logger.Warn("result cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordResultCache(true)
	}
	return &d
}

func (s *Service) cacheSet(ctx context.Context, key string, d *Dashboard) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(d)
	if err != nil {
		s.logger.Warn("result cache marshal failed", zap.Error(err))
		return
	}
	if err := s.redis.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("result cache set failed", zap.Error(err))
	}
}

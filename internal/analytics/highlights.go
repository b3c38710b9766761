package analytics

import (
	"fmt"
	"sort"
)

// HighlightMetric selects which campaign rollup column a highlight
// (lollipop) series ranks by.
type HighlightMetric string

const (
	MetricUsers          HighlightMetric = "users"
	MetricClicks         HighlightMetric = "clicks"
	MetricPurchases      HighlightMetric = "purchases"
	MetricRevenue        HighlightMetric = "revenue"
	MetricCTRPct         HighlightMetric = "ctr_pct"
	MetricConversionPct  HighlightMetric = "conversion_rate_pct"
	MetricAOV            HighlightMetric = "aov"
)

// HighlightPoint pairs a campaign with its value for the chosen metric.
type HighlightPoint struct {
	CampaignID string  `json:"campaign_id"`
	Value      float64 `json:"value"`
}

// HighlightSeries shapes a campaign rollup for a ranking chart: one
// point per campaign, sorted ascending by the chosen metric. The sort
// is stable, so campaigns tied on the metric keep the rollup's order.
// No aggregation happens here; it is purely a sort-for-display step.
func HighlightSeries(rollup []CampaignRow, metric HighlightMetric) ([]HighlightPoint, error) {
	extract, err := metricExtractor(metric)
	if err != nil {
		return nil, err
	}

	points := make([]HighlightPoint, 0, len(rollup))
	for _, row := range rollup {
		points = append(points, HighlightPoint{
			CampaignID: row.CampaignID,
			Value:      extract(row),
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value < points[j].Value
	})
	return points, nil
}

func metricExtractor(metric HighlightMetric) (func(CampaignRow) float64, error) {
	switch metric {
	case MetricUsers:
		return func(r CampaignRow) float64 { return float64(r.Users) }, nil
	case MetricClicks:
		return func(r CampaignRow) float64 { return float64(r.Clicks) }, nil
	case MetricPurchases:
		return func(r CampaignRow) float64 { return float64(r.Purchases) }, nil
	case MetricRevenue:
		return func(r CampaignRow) float64 { return r.Revenue }, nil
	case MetricCTRPct:
		return func(r CampaignRow) float64 { return r.CTRPct }, nil
	case MetricConversionPct:
		return func(r CampaignRow) float64 { return r.ConversionRatePct }, nil
	case MetricAOV:
		return func(r CampaignRow) float64 { return r.AOV }, nil
	default:
		return nil, fmt.Errorf("unknown highlight metric %q", metric)
	}
}

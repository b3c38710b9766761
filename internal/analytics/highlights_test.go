package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func highlightRollup() []CampaignRow {
	return []CampaignRow{
		{CampaignID: "C1", Users: 30, Clicks: 3, CTRPct: 10, Revenue: 100},
		{CampaignID: "C2", Users: 10, Clicks: 5, CTRPct: 50, Revenue: 100},
		{CampaignID: "C3", Users: 20, Clicks: 4, CTRPct: 20, Revenue: 300},
	}
}

func TestHighlightSeries_AscendingByMetric(t *testing.T) {
	points, err := HighlightSeries(highlightRollup(), MetricCTRPct)

	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "C1", points[0].CampaignID)
	assert.Equal(t, "C3", points[1].CampaignID)
	assert.Equal(t, "C2", points[2].CampaignID)
	assert.InDelta(t, 10.0, points[0].Value, 1e-9)
}

func TestHighlightSeries_StableOnTies(t *testing.T) {
	points, err := HighlightSeries(highlightRollup(), MetricRevenue)

	require.NoError(t, err)
	require.Len(t, points, 3)
	// C1 and C2 tie on revenue and keep their rollup order.
	assert.Equal(t, "C1", points[0].CampaignID)
	assert.Equal(t, "C2", points[1].CampaignID)
	assert.Equal(t, "C3", points[2].CampaignID)
}

func TestHighlightSeries_AllMetrics(t *testing.T) {
	metrics := []HighlightMetric{
		MetricUsers, MetricClicks, MetricPurchases, MetricRevenue,
		MetricCTRPct, MetricConversionPct, MetricAOV,
	}
	for _, metric := range metrics {
		points, err := HighlightSeries(highlightRollup(), metric)
		require.NoError(t, err, string(metric))
		assert.Len(t, points, 3, string(metric))
	}
}

func TestHighlightSeries_UnknownMetric(t *testing.T) {
	_, err := HighlightSeries(highlightRollup(), "bounce_rate")
	assert.Error(t, err)
}

func TestHighlightSeries_EmptyRollup(t *testing.T) {
	points, err := HighlightSeries(nil, MetricUsers)
	require.NoError(t, err)
	assert.Empty(t, points)
}

package analytics

import (
	"testing"

	"github.com/marketpulse/campaign-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFunnel_StageOrder(t *testing.T) {
	funnel := ComputeFunnel(nil)

	require.Len(t, funnel, 4)
	assert.Equal(t, StageClickedAd, funnel[0].Stage)
	assert.Equal(t, StageViewedProduct, funnel[1].Stage)
	assert.Equal(t, StageAddedToCart, funnel[2].Stage)
	assert.Equal(t, StagePurchased, funnel[3].Stage)
}

func TestComputeFunnel_EmptySubset(t *testing.T) {
	for _, stage := range ComputeFunnel([]models.Event{}) {
		assert.Zero(t, stage.Users, stage.Stage)
	}
}

func TestComputeFunnel_Counts(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", true, 2, 1, true, 40),
		event("C1", "mobile", "Berlin", true, 1, 0, false, 0),
		event("C2", "desktop", "Hamburg", false, 3, 2, false, 0),
		event("C2", "desktop", "Hamburg", false, 0, 0, false, 0),
	}

	funnel := ComputeFunnel(rows)

	assert.Equal(t, 2, funnel[0].Users) // clicked
	assert.Equal(t, 3, funnel[1].Users) // viewed > 0
	assert.Equal(t, 2, funnel[2].Users) // carted > 0
	assert.Equal(t, 1, funnel[3].Users) // purchased
}

// A purchase with no click, view, or cart still counts only in the
// purchased stage: stages are independent predicates, not a strict
// sequential funnel.
func TestComputeFunnel_StagesAreIndependent(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", false, 0, 0, true, 25),
	}

	funnel := ComputeFunnel(rows)

	assert.Equal(t, 0, funnel[0].Users)
	assert.Equal(t, 0, funnel[1].Users)
	assert.Equal(t, 0, funnel[2].Users)
	assert.Equal(t, 1, funnel[3].Users)
}

func TestComputeFunnel_PurchasedMatchesKPIs(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", true, 1, 1, true, 10),
		event("C2", "desktop", "Hamburg", false, 0, 0, true, 20),
		event("C3", "tablet", "Munich", true, 2, 0, false, 0),
	}

	funnel := ComputeFunnel(rows)
	kpi := ComputeKPIs(rows)

	purchased := float64(funnel[3].Users)
	assert.InDelta(t, kpi.ConversionRatePct, purchased/float64(kpi.TotalUsers)*100, 1e-9)
}

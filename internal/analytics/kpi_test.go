package analytics

import (
	"testing"
	"time"

	"github.com/marketpulse/campaign-insights/internal/models"
	"github.com/stretchr/testify/assert"
)

func event(campaign, device, location string, clicked bool, viewed, carted int, purchased bool, amount float64) models.Event {
	return models.Event{
		UserID:         "u1",
		Timestamp:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		CampaignID:     campaign,
		DeviceType:     device,
		Location:       location,
		ClickedAd:      clicked,
		ProductsViewed: viewed,
		AddedToCart:    carted,
		Purchased:      purchased,
		PurchaseAmount: amount,
	}
}

func TestComputeKPIs(t *testing.T) {
	// 10 rows, 4 clicked, 2 purchased with amounts 50 and 30.
	rows := []models.Event{
		event("C1", "mobile", "Berlin", true, 1, 0, true, 50),
		event("C1", "mobile", "Berlin", true, 0, 0, false, 0),
		event("C1", "desktop", "Berlin", true, 2, 1, false, 0),
		event("C2", "mobile", "Hamburg", true, 0, 0, false, 0),
		event("C2", "desktop", "Hamburg", false, 3, 2, true, 30),
		event("C2", "mobile", "Munich", false, 0, 0, false, 0),
		event("C3", "tablet", "Munich", false, 1, 0, false, 0),
		event("C3", "tablet", "Berlin", false, 0, 0, false, 0),
		event("C3", "mobile", "Hamburg", false, 0, 1, false, 0),
		event("C3", "desktop", "Munich", false, 2, 0, false, 0),
	}

	kpi := ComputeKPIs(rows)

	assert.Equal(t, 10, kpi.TotalUsers)
	assert.InDelta(t, 40.0, kpi.CTRPct, 1e-9)
	assert.InDelta(t, 20.0, kpi.ConversionRatePct, 1e-9)
	assert.InDelta(t, 40.0, kpi.AOV, 1e-9)
}

func TestComputeKPIs_EmptySubset(t *testing.T) {
	kpi := ComputeKPIs(nil)
	assert.Equal(t, KpiSet{}, kpi)
}

func TestComputeKPIs_NoPurchases(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", true, 1, 0, false, 0),
		event("C1", "mobile", "Berlin", false, 0, 0, false, 0),
	}

	kpi := ComputeKPIs(rows)

	assert.Equal(t, 2, kpi.TotalUsers)
	assert.InDelta(t, 50.0, kpi.CTRPct, 1e-9)
	assert.Zero(t, kpi.ConversionRatePct)
	assert.Zero(t, kpi.AOV)
}

func TestComputeKPIs_OrderIndependent(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", true, 1, 0, true, 50),
		event("C2", "desktop", "Hamburg", false, 0, 0, false, 0),
		event("C3", "tablet", "Munich", true, 0, 1, true, 30),
	}
	reversed := []models.Event{rows[2], rows[1], rows[0]}

	assert.Equal(t, ComputeKPIs(rows), ComputeKPIs(reversed))
}

func TestComputeKPIs_Idempotent(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", true, 1, 0, true, 19.99),
		event("C2", "desktop", "Hamburg", false, 2, 1, false, 0),
	}

	assert.Equal(t, ComputeKPIs(rows), ComputeKPIs(rows))
}

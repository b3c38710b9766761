package analytics

import (
	"fmt"
	"testing"

	"github.com/marketpulse/campaign-insights/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationRollup(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", false, 0, 0, true, 10),
		event("C1", "mobile", "Berlin", false, 0, 0, false, 0),
		event("C2", "desktop", "Hamburg", false, 0, 0, true, 20),
		event("C2", "desktop", "Munich", false, 0, 0, false, 0),
	}

	rollup := LocationRollup(rows, 10)

	require.Len(t, rollup, 3)

	// Hamburg converts at 100%, Berlin at 50%, Munich at 0%.
	assert.Equal(t, "Hamburg", rollup[0].Location)
	assert.InDelta(t, 100.0, rollup[0].ConversionRatePct, 1e-9)
	assert.Equal(t, "Berlin", rollup[1].Location)
	assert.InDelta(t, 50.0, rollup[1].ConversionRatePct, 1e-9)
	assert.Equal(t, "Munich", rollup[2].Location)
	assert.Zero(t, rollup[2].ConversionRatePct)
}

func TestLocationRollup_TruncatesToTopN(t *testing.T) {
	var rows []models.Event
	for i := 0; i < 20; i++ {
		loc := fmt.Sprintf("city-%02d", i)
		rows = append(rows, event("C1", "mobile", loc, false, 0, 0, i%2 == 0, 5))
	}

	rollup := LocationRollup(rows, 5)

	assert.Len(t, rollup, 5)
	for _, row := range rollup {
		// Only the converting cities make the cut.
		assert.InDelta(t, 100.0, row.ConversionRatePct, 1e-9)
	}
}

func TestLocationRollup_FewerLocationsThanN(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "Berlin", false, 0, 0, false, 0),
		event("C1", "mobile", "Hamburg", false, 0, 0, false, 0),
	}

	assert.Len(t, LocationRollup(rows, 15), 2)
}

func TestLocationRollup_SortedDescending(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "A", false, 0, 0, true, 1),
		event("C1", "mobile", "A", false, 0, 0, false, 0),
		event("C1", "mobile", "B", false, 0, 0, true, 1),
		event("C1", "mobile", "C", false, 0, 0, false, 0),
	}

	rollup := LocationRollup(rows, 10)

	for i := 1; i < len(rollup); i++ {
		assert.GreaterOrEqual(t, rollup[i-1].ConversionRatePct, rollup[i].ConversionRatePct)
	}
}

func TestLocationRollup_TiesKeepGroupingOrder(t *testing.T) {
	rows := []models.Event{
		event("C1", "mobile", "zurich", false, 0, 0, true, 1),
		event("C1", "mobile", "athens", false, 0, 0, true, 1),
	}

	rollup := LocationRollup(rows, 10)

	require.Len(t, rollup, 2)
	assert.Equal(t, "athens", rollup[0].Location)
	assert.Equal(t, "zurich", rollup[1].Location)
}

func TestLocationRollup_DefaultTopN(t *testing.T) {
	var rows []models.Event
	for i := 0; i < 30; i++ {
		rows = append(rows, event("C1", "mobile", fmt.Sprintf("loc-%02d", i), false, 0, 0, false, 0))
	}

	assert.Len(t, LocationRollup(rows, 0), DefaultTopLocations)
}

func TestLocationRollup_EmptySubset(t *testing.T) {
	assert.Empty(t, LocationRollup(nil, 15))
}

package analytics

import (
	"sort"

	"github.com/marketpulse/campaign-insights/internal/models"
)

// DefaultTopLocations is the number of locations kept by LocationRollup
// when the caller does not ask for a specific count.
const DefaultTopLocations = 15

// LocationRow is the per-location rollup.
type LocationRow struct {
	Location          string  `json:"location"`
	Users             int     `json:"users"`
	Purchases         int     `json:"purchases"`
	ConversionRatePct float64 `json:"conversion_rate_pct"`
}

// LocationRollup groups rows by location, computes conversion rate per
// group, and keeps the topN locations by conversion rate, sorted
// descending. topN <= 0 selects DefaultTopLocations. Ties keep the
// underlying grouping order (ascending by location name).
func LocationRollup(rows []models.Event, topN int) []LocationRow {
	if topN <= 0 {
		topN = DefaultTopLocations
	}

	statsMap := make(map[string]*LocationRow)
	for _, row := range rows {
		st, ok := statsMap[row.Location]
		if !ok {
			st = &LocationRow{Location: row.Location}
			statsMap[row.Location] = st
		}
		st.Users++
		if row.Purchased {
			st.Purchases++
		}
	}

	result := make([]LocationRow, 0, len(statsMap))
	for _, st := range statsMap {
		// Users >= 1 by construction, so the ratio is always defined.
		st.ConversionRatePct = float64(st.Purchases) / float64(st.Users) * 100
		result = append(result, *st)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Location < result[j].Location
	})
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ConversionRatePct > result[j].ConversionRatePct
	})

	if len(result) > topN {
		result = result[:topN]
	}
	return result
}

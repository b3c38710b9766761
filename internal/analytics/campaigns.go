package analytics

import (
	"sort"

	"github.com/marketpulse/campaign-insights/internal/models"
)

// CampaignRow is the per-campaign rollup: one row per distinct
// campaign_id present in the subset.
type CampaignRow struct {
	CampaignID        string  `json:"campaign_id"`
	Users             int     `json:"users"`
	Clicks            int     `json:"clicks"`
	Purchases         int     `json:"purchases"`
	Revenue           float64 `json:"revenue"`
	CTRPct            float64 `json:"ctr_pct"`
	ConversionRatePct float64 `json:"conversion_rate_pct"`
	AOV               float64 `json:"aov"`
}

// CampaignRollup groups rows by campaign and computes volume and
// derived metrics per group. Output is sorted ascending by campaign id
// so repeated runs over the same subset are identical.
//
// AOV here uses a denominator floor of 1 rather than the zero-guard of
// ComputeKPIs: a campaign with no purchases reports aov = revenue
// (normally 0). The two policies are intentionally different and must
// not be unified.
func CampaignRollup(rows []models.Event) []CampaignRow {
	statsMap := make(map[string]*CampaignRow)
	for _, row := range rows {
		st, ok := statsMap[row.CampaignID]
		if !ok {
			st = &CampaignRow{CampaignID: row.CampaignID}
			statsMap[row.CampaignID] = st
		}
		st.Users++
		if row.ClickedAd {
			st.Clicks++
		}
		if row.Purchased {
			st.Purchases++
		}
		st.Revenue += row.PurchaseAmount
	}

	result := make([]CampaignRow, 0, len(statsMap))
	for _, st := range statsMap {
		calculateCampaignMetrics(st)
		result = append(result, *st)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CampaignID < result[j].CampaignID
	})
	return result
}

func calculateCampaignMetrics(st *CampaignRow) {
	// Users >= 1 by construction: a group only exists for present rows.
	st.CTRPct = float64(st.Clicks) / float64(st.Users) * 100
	st.ConversionRatePct = float64(st.Purchases) / float64(st.Users) * 100

	denom := st.Purchases
	if denom == 0 {
		denom = 1
	}
	st.AOV = st.Revenue / float64(denom)
}

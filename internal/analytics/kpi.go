package analytics

import (
	"github.com/marketpulse/campaign-insights/internal/models"
)

// KpiSet holds the headline metrics for a row subset.
type KpiSet struct {
	TotalUsers        int     `json:"total_users"`
	CTRPct            float64 `json:"ctr_pct"`
	ConversionRatePct float64 `json:"conversion_rate_pct"`
	AOV               float64 `json:"aov"`
}

// ComputeKPIs computes the four headline metrics over the given rows.
// All ratios are 0 when their denominator is 0; an empty subset yields
// the zero KpiSet.
func ComputeKPIs(rows []models.Event) KpiSet {
	var clicked, purchased int
	var revenue float64

	for _, row := range rows {
		if row.ClickedAd {
			clicked++
		}
		if row.Purchased {
			purchased++
		}
		revenue += row.PurchaseAmount
	}

	kpi := KpiSet{TotalUsers: len(rows)}
	if kpi.TotalUsers > 0 {
		kpi.CTRPct = float64(clicked) / float64(kpi.TotalUsers) * 100
		kpi.ConversionRatePct = float64(purchased) / float64(kpi.TotalUsers) * 100
	}
	if purchased > 0 {
		kpi.AOV = revenue / float64(purchased)
	}
	return kpi
}

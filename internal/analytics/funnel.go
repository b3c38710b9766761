package analytics

import (
	"github.com/marketpulse/campaign-insights/internal/models"
)

// Funnel stage names, in display order.
const (
	StageClickedAd     = "Clicked Ad"
	StageViewedProduct = "Viewed Product"
	StageAddedToCart   = "Added to Cart"
	StagePurchased     = "Purchased"
)

// FunnelStage is one (stage, count) pair of the funnel.
type FunnelStage struct {
	Stage string `json:"stage"`
	Users int    `json:"users"`
}

// ComputeFunnel counts the four funnel stages over the given rows.
// Each stage is an independent predicate over the same subset: a row
// counted as purchased need not have a recorded click, view, or cart
// event. The counts are therefore not guaranteed to be monotonically
// decreasing.
func ComputeFunnel(rows []models.Event) []FunnelStage {
	var clicked, viewed, carted, purchased int
	for _, row := range rows {
		if row.ClickedAd {
			clicked++
		}
		if row.ProductsViewed > 0 {
			viewed++
		}
		if row.AddedToCart > 0 {
			carted++
		}
		if row.Purchased {
			purchased++
		}
	}

	return []FunnelStage{
		{Stage: StageClickedAd, Users: clicked},
		{Stage: StageViewedProduct, Users: viewed},
		{Stage: StageAddedToCart, Users: carted},
		{Stage: StagePurchased, Users: purchased},
	}
}

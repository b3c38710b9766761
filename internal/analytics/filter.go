package analytics

import (
	"github.com/marketpulse/campaign-insights/internal/models"
)

// Filter holds the allowed values for each dimension. Every set is
// explicit: an empty set selects nothing. Defaulting an omitted
// dimension to the full domain is the caller's job.
type Filter struct {
	CampaignIDs []string `json:"campaign_ids"`
	DeviceTypes []string `json:"device_types"`
	Locations   []string `json:"locations"`
}

// ApplyFilter returns the rows whose campaign, device type and location
// are each members of the corresponding allowed set. Dimensions combine
// with AND; values within a dimension combine with OR.
func ApplyFilter(rows []models.Event, f Filter) []models.Event {
	campaigns := newSet(f.CampaignIDs)
	devices := newSet(f.DeviceTypes)
	locations := newSet(f.Locations)

	result := make([]models.Event, 0, len(rows))
	for _, row := range rows {
		if !campaigns[row.CampaignID] {
			continue
		}
		if !devices[row.DeviceType] {
			continue
		}
		if !locations[row.Location] {
			continue
		}
		result = append(result, row)
	}
	return result
}

func newSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

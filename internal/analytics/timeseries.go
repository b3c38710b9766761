package analytics

import (
	"sort"

	"github.com/marketpulse/campaign-insights/internal/models"
)

// dateLayout is the day-bucket key format. Lexical order of formatted
// dates matches chronological order.
const dateLayout = "2006-01-02"

// DailyPoint is one day's purchase count.
type DailyPoint struct {
	Date      string `json:"date"`
	Purchases int    `json:"purchases"`
}

// DailyPurchases buckets rows by calendar date and sums purchases per
// day. The date is taken in whatever zone the timestamp carries; no
// normalization is applied. Days with no rows are omitted, not
// zero-filled. The result is sorted ascending by date.
func DailyPurchases(rows []models.Event) []DailyPoint {
	byDay := make(map[string]int)
	for _, row := range rows {
		day := row.Timestamp.Format(dateLayout)
		if row.Purchased {
			byDay[day]++
		} else if _, ok := byDay[day]; !ok {
			byDay[day] = 0
		}
	}

	series := make([]DailyPoint, 0, len(byDay))
	for day, purchases := range byDay {
		series = append(series, DailyPoint{Date: day, Purchases: purchases})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Date < series[j].Date
	})
	return series
}

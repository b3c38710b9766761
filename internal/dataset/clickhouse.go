package dataset

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/marketpulse/campaign-insights/internal/models"
)

// ClickHouseSource loads the event log from a ClickHouse table with
// the same columns as the CSV event log. clicked_ad and purchased are
// UInt8 indicators, counts are UInt32, purchase_amount is Float64.
type ClickHouseSource struct {
	conn  driver.Conn
	table string
}

// NewClickHouseSource creates a ClickHouse event-log source.
func NewClickHouseSource(conn driver.Conn, table string) *ClickHouseSource {
	return &ClickHouseSource{
		conn:  conn,
		table: table,
	}
}

// Identity returns the source key for the session cache.
func (s *ClickHouseSource) Identity() string {
	return "clickhouse:" + s.table
}

// Load reads every event row from the table.
func (s *ClickHouseSource) Load(ctx context.Context) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT user_id, timestamp, campaign_id, device_type, location,
		       clicked_ad, products_viewed, added_to_cart, purchased, purchase_amount
		FROM %s
		ORDER BY timestamp`, s.table)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		var clicked, purchased uint8
		var viewed, carted uint32
		if err := rows.Scan(
			&event.UserID,
			&event.Timestamp,
			&event.CampaignID,
			&event.DeviceType,
			&event.Location,
			&clicked,
			&viewed,
			&carted,
			&purchased,
			&event.PurchaseAmount,
		); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		event.ClickedAd = clicked != 0
		event.ProductsViewed = int(viewed)
		event.AddedToCart = int(carted)
		event.Purchased = purchased != 0
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}

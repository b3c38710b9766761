package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/marketpulse/campaign-insights/internal/models"
)

// PostgresSource loads the event log from a PostgreSQL table. The
// table carries the same columns as the CSV event log.
type PostgresSource struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresSource creates a PostgreSQL event-log source.
func NewPostgresSource(pool *pgxpool.Pool, table string) *PostgresSource {
	return &PostgresSource{
		pool:  pool,
		table: table,
	}
}

// Identity returns the source key for the session cache.
func (s *PostgresSource) Identity() string {
	return "postgres:" + s.table
}

// Load reads every event row from the table.
func (s *PostgresSource) Load(ctx context.Context) ([]models.Event, error) {
	query := fmt.Sprintf(`
		SELECT user_id, timestamp, campaign_id, device_type, location,
		       clicked_ad, products_viewed, added_to_cart, purchased, purchase_amount
		FROM %s
		ORDER BY timestamp`, s.table)

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		var clicked, purchased int16
		if err := rows.Scan(
			&event.UserID,
			&event.Timestamp,
			&event.CampaignID,
			&event.DeviceType,
			&event.Location,
			&clicked,
			&event.ProductsViewed,
			&event.AddedToCart,
			&purchased,
			&event.PurchaseAmount,
		); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		event.ClickedAd = clicked != 0
		event.Purchased = purchased != 0
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event rows: %w", err)
	}

	return events, nil
}

package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/marketpulse/campaign-insights/internal/metrics"
	"github.com/marketpulse/campaign-insights/internal/models"
	"go.uber.org/zap"
)

// Column names the event log header must carry.
var csvColumns = []string{
	"user_id",
	"timestamp",
	"campaign_id",
	"device_type",
	"location",
	"clicked_ad",
	"products_viewed",
	"added_to_cart",
	"purchased",
	"purchase_amount",
}

// CSVSource loads the event log from a delimited file with a header
// row. In strict mode the first malformed row fails the whole load;
// otherwise malformed rows are quarantined: skipped, logged, counted.
type CSVSource struct {
	path    string
	strict  bool
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewCSVSource creates a CSV event-log source. metrics may be nil.
func NewCSVSource(path string, strict bool, logger *zap.Logger, m *metrics.Metrics) *CSVSource {
	return &CSVSource{
		path:    path,
		strict:  strict,
		logger:  logger,
		metrics: m,
	}
}

// Identity returns the source key for the session cache.
func (s *CSVSource) Identity() string {
	return "csv:" + s.path
}

// Load reads and parses every row of the file.
func (s *CSVSource) Load(ctx context.Context) ([]models.Event, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []models.Event
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			if s.strict {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			s.quarantine(line, err)
			continue
		}

		event, err := parseRecord(record, index)
		if err != nil {
			if s.strict {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			s.quarantine(line, err)
			continue
		}
		rows = append(rows, event)
	}

	return rows, nil
}

func (s *CSVSource) quarantine(line int, err error) {
	s.logger.Warn("quarantined malformed row",
		zap.Int("line", line),
		zap.Error(err),
	)
	if s.metrics != nil {
		s.metrics.RecordQuarantinedRow(s.Identity())
	}
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q in header", col)
		}
	}
	return index, nil
}

func parseRecord(record []string, index map[string]int) (models.Event, error) {
	field := func(col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var event models.Event
	var err error

	event.UserID = field("user_id")
	event.CampaignID = field("campaign_id")
	event.DeviceType = field("device_type")
	event.Location = field("location")

	if event.Timestamp, err = models.ParseTimestamp(field("timestamp")); err != nil {
		return models.Event{}, err
	}
	if event.ClickedAd, err = models.ParseFlag(field("clicked_ad")); err != nil {
		return models.Event{}, fmt.Errorf("clicked_ad: %w", err)
	}
	if event.ProductsViewed, err = models.ParseCount(field("products_viewed")); err != nil {
		return models.Event{}, fmt.Errorf("products_viewed: %w", err)
	}
	if event.AddedToCart, err = models.ParseCount(field("added_to_cart")); err != nil {
		return models.Event{}, fmt.Errorf("added_to_cart: %w", err)
	}
	if event.Purchased, err = models.ParseFlag(field("purchased")); err != nil {
		return models.Event{}, fmt.Errorf("purchased: %w", err)
	}
	if event.PurchaseAmount, err = models.ParseAmount(field("purchase_amount")); err != nil {
		return models.Event{}, fmt.Errorf("purchase_amount: %w", err)
	}

	return event, nil
}

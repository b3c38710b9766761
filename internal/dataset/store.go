package dataset

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/marketpulse/campaign-insights/internal/models"
)

// RowStore is an immutable snapshot of the event log, loaded once and
// shared read-only for the rest of the session. Aggregators receive
// slices of its rows and never mutate them.
type RowStore struct {
	loadID   uuid.UUID
	source   string
	loadedAt time.Time
	rows     []models.Event

	campaigns []string
	devices   []string
	locations []string
}

// NewRowStore builds a snapshot over the given rows. The store takes
// ownership of the slice; callers must not modify it afterwards.
func NewRowStore(source string, rows []models.Event) *RowStore {
	s := &RowStore{
		loadID:   uuid.New(),
		source:   source,
		loadedAt: time.Now().UTC(),
		rows:     rows,
	}
	s.campaigns = distinct(rows, func(e models.Event) string { return e.CampaignID })
	s.devices = distinct(rows, func(e models.Event) string { return e.DeviceType })
	s.locations = distinct(rows, func(e models.Event) string { return e.Location })
	return s
}

// LoadID identifies this particular load of the dataset.
func (s *RowStore) LoadID() uuid.UUID { return s.loadID }

// Source returns the identity of the source the rows came from.
func (s *RowStore) Source() string { return s.source }

// LoadedAt returns when the snapshot was taken.
func (s *RowStore) LoadedAt() time.Time { return s.loadedAt }

// Len returns the number of rows in the store.
func (s *RowStore) Len() int { return len(s.rows) }

// Rows returns the event rows. The slice is shared and read-only.
func (s *RowStore) Rows() []models.Event { return s.rows }

// Campaigns returns the distinct campaign ids, sorted. This is the
// full domain a consumer defaults the campaign filter to.
func (s *RowStore) Campaigns() []string { return s.campaigns }

// DeviceTypes returns the distinct device types, sorted.
func (s *RowStore) DeviceTypes() []string { return s.devices }

// Locations returns the distinct locations, sorted.
func (s *RowStore) Locations() []string { return s.locations }

func distinct(rows []models.Event, key func(models.Event) string) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		seen[key(row)] = true
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

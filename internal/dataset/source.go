package dataset

import (
	"context"

	"github.com/marketpulse/campaign-insights/internal/models"
)

// Source loads the campaign event log from a backing store. A Source
// is identified by a stable string so the session cache can hand out
// one RowStore per distinct source.
type Source interface {
	// Identity is a stable key describing where the rows come from.
	Identity() string
	// Load reads every event row. Loader-contract violations (missing
	// columns, unparseable values in strict mode) surface as errors.
	Load(ctx context.Context) ([]models.Event, error)
}

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Event is one row of the campaign event log: a single recorded user
// interaction. Dimensional fields are opaque strings; nothing validates
// them against a fixed vocabulary.
type Event struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`

	// Dimensions
	CampaignID string `json:"campaign_id"`
	DeviceType string `json:"device_type"`
	Location   string `json:"location"`

	// Interaction facts
	ClickedAd      bool    `json:"clicked_ad"`
	ProductsViewed int     `json:"products_viewed"`
	AddedToCart    int     `json:"added_to_cart"`
	Purchased      bool    `json:"purchased"`
	PurchaseAmount float64 `json:"purchase_amount"`
}

// timestampLayouts are tried in order when parsing event timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an event timestamp from its textual form.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseFlag parses a 0/1 (or true/false) indicator column.
func ParseFlag(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "1":
		return true, nil
	case "0", "":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid indicator %q", s)
	}
	return b, nil
}

// ParseCount parses a non-negative integer count column.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}

// ParseAmount parses a non-negative monetary amount column.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if f < 0 {
		return 0, fmt.Errorf("negative amount %v", f)
	}
	return f, nil
}

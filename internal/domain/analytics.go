package domain

import "time"

// AnalyticsSnapshot is a derived, on-demand aggregate over Application
// records. It is never stored.
type AnalyticsSnapshot struct {
	Total       int64     `json:"total"`
	Pending     int64     `json:"pending"`
	Closed      int64     `json:"closed"`
	CloseRate   float64   `json:"closeRate"` // percentage, 0 when Total == 0
	LastUpdated time.Time `json:"lastUpdated"`
}

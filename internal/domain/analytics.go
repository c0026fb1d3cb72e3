package domain

import "time"

// AnalyticsSnapshot is a daily metric value recorded for an artisan,
// e.g. listing views imported from selling platforms.
type AnalyticsSnapshot struct {
	ID         string    `json:"id"`
	ArtisanID  string    `json:"artisan_id"`
	MetricType string    `json:"metric_type"`
	Value      float64   `json:"value"`
	Date       time.Time `json:"date"`
}

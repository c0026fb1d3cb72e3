package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordDBPoolMetrics snapshots pool utilisation into the connections gauge.
// Called periodically by the app's collector loop.
func RecordDBPoolMetrics(pool *pgxpool.Pool) {
	stats := pool.Stat()
	for state, value := range map[string]float64{
		"in_use": float64(stats.AcquiredConns()),
		"idle":   float64(stats.IdleConns()),
		"total":  float64(stats.TotalConns()),
		"max":    float64(stats.MaxConns()),
	} {
		DBPoolConnections.WithLabelValues(state).Set(value)
	}
}

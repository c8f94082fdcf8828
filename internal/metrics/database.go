package metrics

import (
	"database/sql"
	"time"
)

// UpdateDBStats updates database connection pool metrics from sql.DBStats
func (m *Metrics) UpdateDBStats(stats interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		dbStats, ok := stats.(sql.DBStats)
		if !ok {
			return
		}

		m.DBConnectionsOpen.Set(float64(dbStats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(dbStats.InUse))
		m.DBConnectionsIdle.Set(float64(dbStats.Idle))
		m.DBConnectionsMax.Set(float64(dbStats.MaxOpenConnections))
	})
}

// RecordDBQuery records a database query duration, and an error if one occurred
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}

package metrics

// IncrementBoardCreated increments the board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementCardCreated increments the card creation counter
func (m *Metrics) IncrementCardCreated() {
	m.safeExecute("IncrementCardCreated", func() {
		m.CardCreatedTotal.Inc()
	})
}

// IncrementConflictDetected increments the stale-update rejection counter
func (m *Metrics) IncrementConflictDetected() {
	m.safeExecute("IncrementConflictDetected", func() {
		m.ConflictDetectedTotal.Inc()
	})
}

// IncrementEventPublished increments the published-event counter for an event type
func (m *Metrics) IncrementEventPublished(eventType string) {
	m.safeExecute("IncrementEventPublished", func() {
		m.EventsPublishedTotal.WithLabelValues(eventType).Inc()
	})
}

// AddWebsocketConnections adjusts the live websocket connection gauge
func (m *Metrics) AddWebsocketConnections(delta int) {
	m.safeExecute("AddWebsocketConnections", func() {
		m.WebsocketConnections.Add(float64(delta))
	})
}

package service

import (
	"fmt"
	"sync"
	"time"
)

// ScanMetrics tracks statistics about one scan cycle
type ScanMetrics struct {
	mu                sync.RWMutex
	StartTime         time.Time
	Duration          time.Duration
	TotalQuotes       int
	PlayersProcessed  int
	PredictionsScored int
	InsufficientData  int
	Errors            int
}

// NewScanMetrics creates a new metrics tracker
func NewScanMetrics() *ScanMetrics {
	return &ScanMetrics{StartTime: time.Now()}
}

// Reset resets all metrics
func (m *ScanMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalQuotes = 0
	m.PlayersProcessed = 0
	m.PredictionsScored = 0
	m.InsufficientData = 0
	m.Errors = 0
}

// RecordPlayer increments the processed player count
func (m *ScanMetrics) RecordPlayer() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PlayersProcessed++
}

// RecordPrediction increments the scored prediction count
func (m *ScanMetrics) RecordPrediction() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PredictionsScored++
}

// RecordInsufficientData increments the skipped player count
func (m *ScanMetrics) RecordInsufficientData() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsufficientData++
}

// RecordError increments the error count
func (m *ScanMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// Snapshot returns a consistent copy of the counters
func (m *ScanMetrics) Snapshot() (players, predictions, insufficient, errors int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PlayersProcessed, m.PredictionsScored, m.InsufficientData, m.Errors
}

// String returns a formatted string representation of metrics
func (m *ScanMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fmt.Sprintf(
		"quotes=%d players=%d scored=%d insufficient_data=%d errors=%d duration=%v",
		m.TotalQuotes, m.PlayersProcessed, m.PredictionsScored, m.InsufficientData, m.Errors, m.Duration,
	)
}

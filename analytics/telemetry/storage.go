// Package telemetry counts what happened to the hits handed to the tracker
package telemetry

import (
	"sync/atomic"
	"time"
)

// Stats is a point in time copy of the counters
type Stats struct {
	Sent             int64 `json:"sent"`
	Queued           int64 `json:"queued"`
	Requeued         int64 `json:"requeued"`
	Dropped          int64 `json:"dropped"`
	Suppressed       int64 `json:"suppressed"`
	Failed           int64 `json:"failed"`
	Flushes          int64 `json:"flushes"`
	LastSynchronized int64 `json:"lastSynchronized"`
}

// Storage keeps the delivery counters. Safe for concurrent use.
type Storage struct {
	sent       int64
	queued     int64
	requeued   int64
	dropped    int64
	suppressed int64
	failed     int64
	flushes    int64
	lastSync   int64
}

// NewStorage creates an empty counter storage
func NewStorage() *Storage {
	return &Storage{}
}

// RecordSent counts a delivered hit
func (s *Storage) RecordSent() {
	atomic.AddInt64(&s.sent, 1)
	atomic.StoreInt64(&s.lastSync, time.Now().UnixMilli())
}

// RecordQueued counts a hit queued while offline
func (s *Storage) RecordQueued() {
	atomic.AddInt64(&s.queued, 1)
}

// RecordRequeued counts a hit queued after a failed delivery
func (s *Storage) RecordRequeued() {
	atomic.AddInt64(&s.requeued, 1)
}

// RecordDropped counts a queued hit that failed again and was discarded
func (s *Storage) RecordDropped() {
	atomic.AddInt64(&s.dropped, 1)
}

// RecordSuppressed counts a hit skipped because tracking is disabled
func (s *Storage) RecordSuppressed() {
	atomic.AddInt64(&s.suppressed, 1)
}

// RecordFailed counts a hit that could neither be sent nor queued
func (s *Storage) RecordFailed() {
	atomic.AddInt64(&s.failed, 1)
}

// RecordFlush counts an offline queue drain
func (s *Storage) RecordFlush() {
	atomic.AddInt64(&s.flushes, 1)
}

// Snapshot returns the current counters
func (s *Storage) Snapshot() Stats {
	return Stats{
		Sent:             atomic.LoadInt64(&s.sent),
		Queued:           atomic.LoadInt64(&s.queued),
		Requeued:         atomic.LoadInt64(&s.requeued),
		Dropped:          atomic.LoadInt64(&s.dropped),
		Suppressed:       atomic.LoadInt64(&s.suppressed),
		Failed:           atomic.LoadInt64(&s.failed),
		Flushes:          atomic.LoadInt64(&s.flushes),
		LastSynchronized: atomic.LoadInt64(&s.lastSync),
	}
}

// Package profiling collects self-observability counters for a logging
// subsystem: message throughput, latency, emoji rendering overhead, and
// drop counts. Counters are process-local and guarded by a single mutex.
package profiling

import (
	"sync"
	"time"
)

// ProfileMetrics tracks message counters for a logging subsystem.
// All mutating and reading operations are safe for concurrent use.
//
// Derived values (rates, averages) are computed from an immutable
// Snapshot taken under one lock acquisition, so no accessor ever
// re-enters the mutex.
type ProfileMetrics struct {
	mu sync.Mutex

	messageCount      int64
	totalDurationNs   int64
	emojiMessageCount int64
	droppedCount      int64
	totalFieldCount   int64
	startTime         time.Time

	// injectable for deterministic rate tests
	now func() time.Time
}

// NewProfileMetrics creates a metrics collector with a fresh start time
func NewProfileMetrics() *ProfileMetrics {
	m := &ProfileMetrics{now: time.Now}
	m.startTime = m.now()
	return m
}

// RecordMessage atomically records one handled message: its processing
// duration, whether it contained emoji, and its structured field count.
func (m *ProfileMetrics) RecordMessage(duration time.Duration, hasEmoji bool, fieldCount int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messageCount++
	m.totalDurationNs += duration.Nanoseconds()
	if hasEmoji {
		m.emojiMessageCount++
	}
	m.totalFieldCount += int64(fieldCount)
}

// RecordDrop counts a message that was discarded before handling
func (m *ProfileMetrics) RecordDrop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.droppedCount++
}

// Reset zeroes all counters and restarts the uptime clock
func (m *ProfileMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messageCount = 0
	m.totalDurationNs = 0
	m.emojiMessageCount = 0
	m.droppedCount = 0
	m.totalFieldCount = 0
	m.startTime = m.now()
}

// Snapshot is an immutable copy of the raw counters at one instant.
// Derived values are methods on the snapshot, not on the collector, so
// they never need the lock.
type Snapshot struct {
	MessageCount      int64
	TotalDurationNs   int64
	EmojiMessageCount int64
	DroppedCount      int64
	TotalFieldCount   int64
	StartTime         time.Time
	Taken             time.Time
}

// Snapshot copies all counters under a single lock acquisition
func (m *ProfileMetrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		MessageCount:      m.messageCount,
		TotalDurationNs:   m.totalDurationNs,
		EmojiMessageCount: m.emojiMessageCount,
		DroppedCount:      m.droppedCount,
		TotalFieldCount:   m.totalFieldCount,
		StartTime:         m.startTime,
		Taken:             m.now(),
	}
}

// MessagesPerSecond returns the message rate since the start time.
// Zero when no time has elapsed or nothing was recorded.
func (s Snapshot) MessagesPerSecond() float64 {
	elapsed := s.Taken.Sub(s.StartTime).Seconds()
	if elapsed <= 0 || s.MessageCount == 0 {
		return 0
	}
	return float64(s.MessageCount) / elapsed
}

// AvgLatencyMs returns the mean per-message duration in milliseconds
func (s Snapshot) AvgLatencyMs() float64 {
	if s.MessageCount == 0 {
		return 0
	}
	return float64(s.TotalDurationNs) / float64(s.MessageCount) / 1e6
}

// EmojiOverheadPercent returns the share of messages containing emoji
func (s Snapshot) EmojiOverheadPercent() float64 {
	if s.MessageCount == 0 {
		return 0
	}
	return float64(s.EmojiMessageCount) / float64(s.MessageCount) * 100
}

// AvgFieldsPerMessage returns the mean structured field count
func (s Snapshot) AvgFieldsPerMessage() float64 {
	if s.MessageCount == 0 {
		return 0
	}
	return float64(s.TotalFieldCount) / float64(s.MessageCount)
}

// Convenience accessors on the collector; each takes one snapshot.

// MessagesPerSecond returns the current message rate
func (m *ProfileMetrics) MessagesPerSecond() float64 { return m.Snapshot().MessagesPerSecond() }

// AvgLatencyMs returns the current mean per-message latency in milliseconds
func (m *ProfileMetrics) AvgLatencyMs() float64 { return m.Snapshot().AvgLatencyMs() }

// EmojiOverheadPercent returns the current share of emoji messages
func (m *ProfileMetrics) EmojiOverheadPercent() float64 { return m.Snapshot().EmojiOverheadPercent() }

// AvgFieldsPerMessage returns the current mean field count
func (m *ProfileMetrics) AvgFieldsPerMessage() float64 { return m.Snapshot().AvgFieldsPerMessage() }

// MessageCount returns the number of recorded messages
func (m *ProfileMetrics) MessageCount() int64 { return m.Snapshot().MessageCount }

// DroppedCount returns the number of dropped messages
func (m *ProfileMetrics) DroppedCount() int64 { return m.Snapshot().DroppedCount }

// ToMap renders all raw and derived values for structured logging.
// Everything is computed from one snapshot, so the numbers are
// mutually consistent.
func (m *ProfileMetrics) ToMap() map[string]interface{} {
	s := m.Snapshot()
	return map[string]interface{}{
		"message_count":          s.MessageCount,
		"total_duration_ns":      s.TotalDurationNs,
		"emoji_message_count":    s.EmojiMessageCount,
		"dropped_count":          s.DroppedCount,
		"total_field_count":      s.TotalFieldCount,
		"start_time":             s.StartTime,
		"messages_per_second":    s.MessagesPerSecond(),
		"avg_latency_ms":         s.AvgLatencyMs(),
		"emoji_overhead_percent": s.EmojiOverheadPercent(),
		"avg_fields_per_message": s.AvgFieldsPerMessage(),
	}
}

package profiling

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Profiling metric names
const (
	MetricMessages         = "logging.profile.messages"
	MetricDropped          = "logging.profile.dropped"
	MetricEmojiMessages    = "logging.profile.emoji_messages"
	MetricMessagesPerSec   = "logging.profile.messages_per_second"
	MetricAvgLatencyMs     = "logging.profile.avg_latency_ms"
	MetricAvgFieldsPerMsg  = "logging.profile.avg_fields_per_message"
	MetricEmojiOverheadPct = "logging.profile.emoji_overhead_percent"
)

// Observer exports ProfileMetrics snapshots through the OpenTelemetry
// metric API. The observation callback takes a single snapshot per
// collection cycle, so the exported values are mutually consistent.
// The host application owns the meter provider and exporters.
type Observer struct {
	metrics      *ProfileMetrics
	registration metric.Registration
}

// NewObserver registers observable instruments on the named meter.
// Call Shutdown to unregister when the collector is retired.
func NewObserver(meterName string, m *ProfileMetrics) (*Observer, error) {
	meter := otel.Meter(meterName)

	messages, err := meter.Int64ObservableCounter(MetricMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", MetricMessages, err)
	}
	dropped, err := meter.Int64ObservableCounter(MetricDropped)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", MetricDropped, err)
	}
	emoji, err := meter.Int64ObservableCounter(MetricEmojiMessages)
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", MetricEmojiMessages, err)
	}
	rate, err := meter.Float64ObservableGauge(MetricMessagesPerSec)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge %s: %w", MetricMessagesPerSec, err)
	}
	latency, err := meter.Float64ObservableGauge(MetricAvgLatencyMs)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge %s: %w", MetricAvgLatencyMs, err)
	}
	fields, err := meter.Float64ObservableGauge(MetricAvgFieldsPerMsg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge %s: %w", MetricAvgFieldsPerMsg, err)
	}
	overhead, err := meter.Float64ObservableGauge(MetricEmojiOverheadPct)
	if err != nil {
		return nil, fmt.Errorf("failed to create gauge %s: %w", MetricEmojiOverheadPct, err)
	}

	registration, err := meter.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			s := m.Snapshot()
			o.ObserveInt64(messages, s.MessageCount)
			o.ObserveInt64(dropped, s.DroppedCount)
			o.ObserveInt64(emoji, s.EmojiMessageCount)
			o.ObserveFloat64(rate, s.MessagesPerSecond())
			o.ObserveFloat64(latency, s.AvgLatencyMs())
			o.ObserveFloat64(fields, s.AvgFieldsPerMessage())
			o.ObserveFloat64(overhead, s.EmojiOverheadPercent())
			return nil
		},
		messages, dropped, emoji, rate, latency, fields, overhead,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register profiling callback: %w", err)
	}

	return &Observer{metrics: m, registration: registration}, nil
}

// Shutdown unregisters the observation callback
func (o *Observer) Shutdown() error {
	if err := o.registration.Unregister(); err != nil {
		return fmt.Errorf("failed to unregister profiling callback: %w", err)
	}
	return nil
}

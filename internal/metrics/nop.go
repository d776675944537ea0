// Package metrics provides the default no-op metrics collector.
package metrics

import "github.com/arcten/timeshard/types"

// NopCollector discards all recorded metrics. It is the default when no
// collector is provided.
type NopCollector struct{}

var _ types.MetricsCollector = (*NopCollector)(nil)

// NewNop creates a collector that records nothing.
func NewNop() *NopCollector {
	return &NopCollector{}
}

// RecordReconcile discards the event.
func (n *NopCollector) RecordReconcile(_ int, _ bool) {}

// RecordPublish discards the event.
func (n *NopCollector) RecordPublish(_ bool) {}

// RecordPoll discards the event.
func (n *NopCollector) RecordPoll(_ bool) {}

// RecordRewrite discards the event.
func (n *NopCollector) RecordRewrite(_ bool) {}

// RecordSignal discards the event.
func (n *NopCollector) RecordSignal(_ string, _ bool) {}

// RecordAnnounce discards the event.
func (n *NopCollector) RecordAnnounce(_ string, _ bool) {}

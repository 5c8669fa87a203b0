package querycache

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type storeMetrics struct {
	hits       metric.Int64Counter
	misses     metric.Int64Counter
	stale      metric.Int64Counter
	coalesced  metric.Int64Counter
	superseded metric.Int64Counter
}

var (
	metricsOnce sync.Once
	metrics     *storeMetrics
)

func ensureMetrics() *storeMetrics {
	metricsOnce.Do(func() {
		meter := otel.Meter("github.com/wecare/healthtracker/querycache")

		hits, err := meter.Int64Counter("querycache.hit.count",
			metric.WithDescription("Reads answered by a fresh entry"))
		if err != nil {
			return
		}
		misses, err := meter.Int64Counter("querycache.miss.count",
			metric.WithDescription("Reads that waited for a fetch"))
		if err != nil {
			return
		}
		stale, err := meter.Int64Counter("querycache.stale.count",
			metric.WithDescription("Reads answered by a stale entry while it refetched"))
		if err != nil {
			return
		}
		coalesced, err := meter.Int64Counter("querycache.coalesced.count",
			metric.WithDescription("Reads that shared an in-flight fetch"))
		if err != nil {
			return
		}
		superseded, err := meter.Int64Counter("querycache.superseded.count",
			metric.WithDescription("Fetch results dropped because a newer fetch was issued or the entry was removed"))
		if err != nil {
			return
		}

		metrics = &storeMetrics{
			hits:       hits,
			misses:     misses,
			stale:      stale,
			coalesced:  coalesced,
			superseded: superseded,
		}
	})
	return metrics
}

func record(counter func(*storeMetrics) metric.Int64Counter, kind Kind) {
	m := ensureMetrics()
	if m == nil {
		return
	}
	counter(m).Add(context.Background(), 1, metric.WithAttributes(attribute.String("cache.kind", string(kind))))
}

func recordHit(kind Kind)        { record(func(m *storeMetrics) metric.Int64Counter { return m.hits }, kind) }
func recordMiss(kind Kind)       { record(func(m *storeMetrics) metric.Int64Counter { return m.misses }, kind) }
func recordStale(kind Kind)      { record(func(m *storeMetrics) metric.Int64Counter { return m.stale }, kind) }
func recordCoalesced(kind Kind)  { record(func(m *storeMetrics) metric.Int64Counter { return m.coalesced }, kind) }
func recordSuperseded(kind Kind) { record(func(m *storeMetrics) metric.Int64Counter { return m.superseded }, kind) }

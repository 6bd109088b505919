package observability

import (
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

var (
	registerOnce sync.Once

	codecOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rowcodec",
			Subsystem: "codec",
			Name:      "operations_total",
			Help:      "Record encode/decode operations by outcome.",
		},
		[]string{"schema", "op", "result"},
	)
	codecBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rowcodec",
			Subsystem: "codec",
			Name:      "bytes_total",
			Help:      "Record bytes produced by encode or consumed by decode.",
		},
		[]string{"schema", "op"},
	)
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rowcodec",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Row cache lookups by entity kind and result.",
		},
		[]string{"kind", "result"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(codecOperations, codecBytes, cacheLookups)
	})
}

// RecordCodecOp counts one encode or decode. n is the record size in bytes
// and is only counted for successful operations.
func RecordCodecOp(schema, op, result string, n int) {
	RegisterMetrics()
	codecOperations.WithLabelValues(schema, op, result).Inc()
	if result == "ok" {
		codecBytes.WithLabelValues(schema, op).Add(float64(n))
	}
}

func RecordCacheLookup(kind, result string) {
	RegisterMetrics()
	cacheLookups.WithLabelValues(kind, result).Inc()
}

// WriteMetrics gathers the default registry and writes it to w in the
// prometheus text exposition format.
func WriteMetrics(w io.Writer) error {
	RegisterMetrics()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

package envelope

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelStatusSuccess = "success"
	labelStatusFail    = "fail"
)

// Metrics holds the Prometheus collectors for envelope operations.
type Metrics struct {
	packTotal      *prometheus.CounterVec
	unpackTotal    *prometheus.CounterVec
	unpackDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		packTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lvenvelope",
			Name:      "pack_total",
			Help:      "Envelopes packed, by status and error code.",
		}, []string{"status", "code"}),
		unpackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lvenvelope",
			Name:      "unpack_total",
			Help:      "Envelopes unpacked, by status and error code.",
		}, []string{"status", "code"}),
		unpackDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lvenvelope",
			Name:      "unpack_duration_seconds",
			Help:      "Time spent unpacking an envelope.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.packTotal, m.unpackTotal, m.unpackDuration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observePack(err error) {
	if m == nil {
		return
	}
	m.packTotal.WithLabelValues(statusOf(err), Code(err)).Inc()
}

func (m *Metrics) observeUnpack(start time.Time, err error) {
	if m == nil {
		return
	}
	m.unpackTotal.WithLabelValues(statusOf(err), Code(err)).Inc()
	m.unpackDuration.Observe(time.Since(start).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return labelStatusFail
	}
	return labelStatusSuccess
}

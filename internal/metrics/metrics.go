// Package metrics exposes Prometheus collectors for the drive core.
//
// A nil *Metrics is valid and records nothing, so components can run
// without a registry in tests.
package metrics

import (
	"cloud-drive/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"time"
)

const namespace = "drive"

type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	quotaRejections   prometheus.Counter
	storageRetries    *prometheus.CounterVec
	trashPurged       prometheus.Counter
	objectsDeleted    *prometheus.CounterVec
	eventsPublished   *prometheus.CounterVec
	sweepRuns         *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Core operations by name and resulting HTTP-equivalent status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Duration of core operations in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		quotaRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rejections_total",
			Help:      "Size-increasing mutations refused because of the owner's storage limit",
		}),
		storageRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_retries_total",
				Help:      "Object storage calls retried after a transient failure",
			},
			[]string{"operation"},
		),
		trashPurged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trash_purged_nodes_total",
			Help:      "Nodes permanently removed by the retention sweep",
		}),
		objectsDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_objects_deleted_total",
				Help:      "Storage objects deleted after their rows were removed",
			},
			[]string{"status"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_published_total",
				Help:      "Realtime events handed to the notifier",
			},
			[]string{"event", "status"},
		),
		sweepRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retention_sweeps_total",
				Help:      "Runs of the trash retention sweep",
			},
			[]string{"status"},
		),
	}
}

// ObserveOperation : meant to be deferred with the named error result
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := http.StatusOK
	if err != nil {
		status = util.StatusFor(err)
	}
	m.operationsTotal.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) QuotaRejected() {
	if m == nil {
		return
	}
	m.quotaRejections.Inc()
}

func (m *Metrics) StorageRetry(operation string) {
	if m == nil {
		return
	}
	m.storageRetries.WithLabelValues(operation).Inc()
}

func (m *Metrics) TrashPurged(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.trashPurged.Add(float64(count))
}

func (m *Metrics) ObjectDeleted(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.objectsDeleted.WithLabelValues(status).Inc()
}

func (m *Metrics) EventPublished(event string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.eventsPublished.WithLabelValues(event, status).Inc()
}

func (m *Metrics) SweepCompleted(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "failed"
	}
	m.sweepRuns.WithLabelValues(status).Inc()
}

// Handler : /metrics for the given gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

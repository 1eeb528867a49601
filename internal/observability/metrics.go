package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Bot and ingestion collectors, registered on the default registry and
// served by the /metrics route next to the HTTP ones.
var (
	// botEvents counts handled conversation events by kind and outcome
	// (e.g. "query"/"results", "navigate"/"debounced").
	botEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_events_total",
			Help: "Conversation events handled, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	// botEventLat is the handling latency of one event, transport excluded.
	botEventLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_event_duration_seconds",
			Help:    "Time spent handling a conversation event.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"kind"},
	)

	// botSendErrors counts failed transport calls by class
	// ("not_modified", "too_many_requests", "other").
	botSendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_send_errors_total",
			Help: "Transport errors while delivering replies, by class.",
		},
		[]string{"class"},
	)

	ingestRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ingest_records",
		Help: "Distinct records in the loaded database.",
	})
	ingestLines = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ingest_lines",
		Help: "Lines visited by the last load.",
	})
	ingestFailed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ingest_failed_lines",
		Help: "Lines skipped by the last load.",
	})
	ingestDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ingest_duration_seconds",
		Help: "Wall-clock duration of the last load.",
	})
)

func init() {
	prometheus.MustRegister(
		botEvents, botEventLat, botSendErrors,
		ingestRecords, ingestLines, ingestFailed, ingestDuration,
	)
}

// ObserveEvent records one handled event.
func ObserveEvent(kind, outcome string, took time.Duration) {
	botEvents.WithLabelValues(kind, outcome).Inc()
	botEventLat.WithLabelValues(kind).Observe(took.Seconds())
}

// ObserveSendError records one failed transport call.
func ObserveSendError(class string) {
	botSendErrors.WithLabelValues(class).Inc()
}

// ObserveIngest publishes the figures of the last load.
func ObserveIngest(lines, failed, records int, took time.Duration) {
	ingestLines.Set(float64(lines))
	ingestFailed.Set(float64(failed))
	ingestRecords.Set(float64(records))
	ingestDuration.Set(took.Seconds())
}

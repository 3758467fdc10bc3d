package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "irrigation_"

var (
	registerOnce sync.Once

	statusEvaluations *prometheus.CounterVec
	stationActive     *prometheus.GaugeVec
	configMutations   *prometheus.CounterVec
	storeErrors       *prometheus.CounterVec
)

// Init registers the collectors with the default registry. Until it is
// called every recorder below is a no-op.
func Init() {
	registerOnce.Do(func() {
		statusEvaluations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "status_evaluations_total",
				Help: "Total status evaluations by scope",
			},
			[]string{"scope"},
		)
		stationActive = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: metricPrefix + "station_active",
				Help: "Whether the station was active at its last evaluation (1 or 0)",
			},
			[]string{"station"},
		)
		configMutations = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "config_mutations_total",
				Help: "Total persisted configuration changes by event type",
			},
			[]string{"type"},
		)
		storeErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "store_errors_total",
				Help: "Total store failures by operation",
			},
			[]string{"op"},
		)

		prometheus.MustRegister(
			statusEvaluations,
			stationActive,
			configMutations,
			storeErrors,
		)
	})
}

// ObserveEvaluation counts one evaluation pass. scope is "station" or "all".
func ObserveEvaluation(scope string) {
	if statusEvaluations != nil {
		statusEvaluations.WithLabelValues(scope).Inc()
	}
}

// SetStationActive records the verdict of one station.
func SetStationActive(stationID int, active bool) {
	if stationActive == nil {
		return
	}
	v := 0.0
	if active {
		v = 1
	}
	stationActive.WithLabelValues(strconv.Itoa(stationID)).Set(v)
}

// ForgetStation drops the gauge of a deleted station.
func ForgetStation(stationID int) {
	if stationActive != nil {
		stationActive.DeleteLabelValues(strconv.Itoa(stationID))
	}
}

func IncConfigMutation(eventType string) {
	if configMutations != nil {
		configMutations.WithLabelValues(eventType).Inc()
	}
}

func IncStoreError(op string) {
	if storeErrors != nil {
		storeErrors.WithLabelValues(op).Inc()
	}
}

package los

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics instrument the forward-projection hot path, following the
// promauto registration style used throughout the pack's Prometheus
// exporters: declare once at package init, update from the call sites
// below.
var (
	projectionCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "los_projection_calls_total",
		Help: "Forward projection calls, by acquisition type and outcome",
	}, []string{"acquisition_type", "outcome"})

	projectionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "los_projection_duration_seconds",
		Help:    "Wall-clock duration of InputLineSampToGeodetic calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"acquisition_type"})

	ephemerisInterpolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "los_ephemeris_interpolations_total",
		Help: "Lagrange ephemeris interpolations performed",
	})

	novasAdapterErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "los_novas_adapter_errors_total",
		Help: "NovasAdapter calls that returned an error, by routine",
	}, []string{"routine"})
)

func acquisitionTypeLabel(t AcquisitionType) string {
	switch t {
	case AcquisitionEarth:
		return "earth"
	case AcquisitionStellar:
		return "stellar"
	case AcquisitionLunar:
		return "lunar"
	default:
		return "unknown"
	}
}

func observeProjectionOutcome(acqType AcquisitionType, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	projectionCallsTotal.WithLabelValues(acquisitionTypeLabel(acqType), outcome).Inc()
}

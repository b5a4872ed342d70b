package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	NearestQueries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fastroute_nearest_queries_total",
		Help: "Total nearest stop lookups",
	})
	NearestFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fastroute_nearest_fallbacks_total",
		Help: "Nearest stop lookups that fell back to a full scan",
	})
	PathQueries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fastroute_path_queries_total",
		Help: "Total shortest path computations",
	})
	UnreachablePaths = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fastroute_unreachable_paths_total",
		Help: "Shortest path computations with no route",
	})
	PositionReports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fastroute_position_reports_total",
		Help: "Vehicle position reports by source",
	}, []string{"source"})
	StatusTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fastroute_status_transitions_total",
		Help: "Vehicle status transitions by destination status",
	}, []string{"status"})
	CoverageRecords = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fastroute_coverage_records_total",
		Help: "Coordinates recorded into the coverage tracker",
	})
	BatchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fastroute_tracker_batch_duration_ms",
		Help:    "Vehicle tracker batch processing duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fastroute_http_requests_total",
		Help: "API requests by matched route and status class",
	}, []string{"route", "class"})
	HTTPDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fastroute_http_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(NearestQueries)
	prometheus.MustRegister(NearestFallbacks)
	prometheus.MustRegister(PathQueries)
	prometheus.MustRegister(UnreachablePaths)
	prometheus.MustRegister(PositionReports)
	prometheus.MustRegister(StatusTransitions)
	prometheus.MustRegister(CoverageRecords)
	prometheus.MustRegister(BatchDurationMs)
	prometheus.MustRegister(HTTPRequests)
	prometheus.MustRegister(HTTPDurationMs)
}

func Handler() http.Handler { return promhttp.Handler() }

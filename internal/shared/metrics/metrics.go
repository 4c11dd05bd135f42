package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PredictionsTotal counts scored records by outcome ("churn" / "retain").
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total predictions served by outcome",
		},
		[]string{"outcome"},
	)

	// BatchRowsScoredTotal counts rows scored through the file endpoint.
	BatchRowsScoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "batch_rows_scored_total",
			Help: "Total rows scored via batch file uploads",
		},
	)

	// UnmappedCategoryTotal counts categorical cells that fell through the
	// label tables and were scored as missing.
	UnmappedCategoryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unmapped_category_total",
			Help: "Total categorical values not found in a mapping table",
		},
		[]string{"feature"},
	)

	// RecommendationRequestsTotal counts recommendation calls by result kind.
	RecommendationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total retention recommendation requests by result",
		},
		[]string{"result"},
	)

	// RecommendationDuration tracks the latency of the upstream LLM call.
	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of retention recommendation calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
)

// Handler exposes the Prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

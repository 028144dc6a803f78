package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Tracks the number of HTTP requests.",
	}, []string{"method", "route", "status"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Tracks the latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	postsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inkpost_posts_created_total",
		Help: "Posts created.",
	})

	likesToggled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inkpost_likes_toggled_total",
		Help: "Like toggles by resulting state.",
	}, []string{"state"})

	commentsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inkpost_comments_created_total",
		Help: "Comments created.",
	})

	listDegradations = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inkpost_post_list_degraded_total",
		Help: "Post listings that fell back to a partial join.",
	})
)

// NewRegistry returns a registry holding the Go runtime, process and
// application collectors.
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestsTotal,
		requestDuration,
		postsCreated,
		likesToggled,
		commentsCreated,
		listDegradations,
	)

	return registry
}

func ObserveRequest(method, route, status string, seconds float64) {
	requestsTotal.WithLabelValues(method, route, status).Inc()
	requestDuration.WithLabelValues(method, route).Observe(seconds)
}

func IncrementPostsCreated() {
	postsCreated.Inc()
}

func IncrementCommentsCreated() {
	commentsCreated.Inc()
}

// ObserveLikeToggle counts a toggle that left the post liked or unliked.
func ObserveLikeToggle(liked bool) {
	state := "unliked"
	if liked {
		state = "liked"
	}
	likesToggled.WithLabelValues(state).Inc()
}

func IncrementListDegradations() {
	listDegradations.Inc()
}

// Package metrics exposes session and score instrumentation on a private
// Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is safe to use as a nil pointer; every method is then a no-op.
type Recorder struct {
	registry          *prometheus.Registry
	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	reactionScore     *prometheus.HistogramVec
	minutesSaved      prometheus.Histogram
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dawn",
			Name:      "sessions_started_total",
			Help:      "Sessions started, by context and whether the maintenance protocol was used.",
		}, []string{"context", "maintenance"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dawn",
			Name:      "sessions_completed_total",
			Help:      "Sessions completed, by whether the reaction score improved.",
		}, []string{"improved"}),
		reactionScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dawn",
			Name:      "reaction_score",
			Help:      "Reaction test scores (1000 = 200ms median).",
			Buckets:   []float64{250, 400, 500, 600, 700, 800, 900, 1000, 1200, 1500},
		}, []string{"timing"}),
		minutesSaved: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dawn",
			Name:      "minutes_saved_estimate",
			Help:      "Estimated minutes of grogginess saved per completed session.",
			Buckets:   []float64{0, 5, 10, 15, 20, 25, 30},
		}),
	}
	r.registry.MustRegister(r.sessionsStarted, r.sessionsCompleted, r.reactionScore, r.minutesSaved)
	return r
}

func (r *Recorder) SessionStarted(context string, maintenance bool) {
	if r == nil {
		return
	}
	r.sessionsStarted.WithLabelValues(context, strconv.FormatBool(maintenance)).Inc()
}

func (r *Recorder) ReactionScored(timing string, score int) {
	if r == nil {
		return
	}
	r.reactionScore.WithLabelValues(timing).Observe(float64(score))
}

func (r *Recorder) SessionCompleted(improved bool, minutesSaved int) {
	if r == nil {
		return
	}
	r.sessionsCompleted.WithLabelValues(strconv.FormatBool(improved)).Inc()
	r.minutesSaved.Observe(float64(minutesSaved))
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry to tests and embedding servers.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

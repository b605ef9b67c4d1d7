package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the quiz counters. A nil *Recorder is valid and records
// nothing, so callers never need to branch on whether metrics are enabled.
type Recorder struct {
	AttemptsStarted   prometheus.Counter
	AnswersSaved      prometheus.Counter
	AttemptsSubmitted prometheus.Counter
	SubmitConflicts   prometheus.Counter
	ScoreRatio        prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated.
func New(reg *prometheus.Registry) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		AttemptsStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "quiz_attempts_started_total",
			Help: "Total number of quiz attempts started",
		}),
		AnswersSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "quiz_answers_saved_total",
			Help: "Total number of answer selections stored",
		}),
		AttemptsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "quiz_attempts_submitted_total",
			Help: "Total number of attempts that reached the submitted state",
		}),
		SubmitConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "quiz_submit_conflicts_total",
			Help: "Submit calls rejected because the attempt was already submitted",
		}),
		ScoreRatio: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "quiz_attempt_score_ratio",
			Help:    "Score divided by total questions for submitted attempts",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		gatherer: reg,
	}
}

func (r *Recorder) Started() {
	if r != nil {
		r.AttemptsStarted.Inc()
	}
}

func (r *Recorder) AnswerSaved() {
	if r != nil {
		r.AnswersSaved.Inc()
	}
}

func (r *Recorder) Submitted(score, total int) {
	if r == nil {
		return
	}
	r.AttemptsSubmitted.Inc()
	if total > 0 {
		r.ScoreRatio.Observe(float64(score) / float64(total))
	}
}

func (r *Recorder) Conflict() {
	if r != nil {
		r.SubmitConflicts.Inc()
	}
}

// Handler serves the registry the recorder was built with.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

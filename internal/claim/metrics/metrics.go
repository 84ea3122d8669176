// Package metrics exposes Prometheus instruments for the claim lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Recorder struct {
	created   prometheus.Counter
	submitted prometheus.Counter
	decisions *prometheus.CounterVec
	disputed  prometheus.Counter
	scores    prometheus.Histogram
}

func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vouch",
			Subsystem: "claims",
			Name:      "created_total",
			Help:      "Claims created as drafts.",
		}),
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vouch",
			Subsystem: "claims",
			Name:      "submitted_total",
			Help:      "Claims submitted for verification.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vouch",
			Subsystem: "claims",
			Name:      "decisions_total",
			Help:      "Verification decisions recorded, by outcome.",
		}, []string{"outcome"}),
		disputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vouch",
			Subsystem: "claims",
			Name:      "disputed_total",
			Help:      "Claims moved into the disputed state.",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vouch",
			Subsystem: "claims",
			Name:      "credibility_score",
			Help:      "Credibility scores committed at decision time.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	reg.MustRegister(r.created, r.submitted, r.decisions, r.disputed, r.scores)
	return r
}

func (r *Recorder) ClaimCreated()   { r.created.Inc() }
func (r *Recorder) ClaimSubmitted() { r.submitted.Inc() }
func (r *Recorder) DecisionRecorded(outcome string) {
	r.decisions.WithLabelValues(outcome).Inc()
}
func (r *Recorder) ClaimDisputed()             { r.disputed.Inc() }
func (r *Recorder) ObserveScore(score float64) { r.scores.Observe(score) }

package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce      sync.Once
	submissionsTotal  *prometheus.CounterVec
	gradingOutcomes   *prometheus.CounterVec
	emailsSentTotal   prometheus.Counter
	emailFailuresNum  prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the submission lifecycle.
func RegisterMetrics() {
	registerOnce.Do(func() {
		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursemaker",
			Name:      "submissions_total",
			Help:      "Total number of report submissions accepted.",
		}, []string{"timing"})

		gradingOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coursemaker",
			Name:      "grading_outcomes_total",
			Help:      "Grading pipeline outcomes by result.",
		}, []string{"outcome"})

		emailsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coursemaker",
			Name:      "notification_emails_sent_total",
			Help:      "Status notification emails confirmed by the provider.",
		})

		emailFailuresNum = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "coursemaker",
			Name:      "notification_email_failures_total",
			Help:      "Status notification emails the provider failed to deliver.",
		})

		prometheus.MustRegister(submissionsTotal, gradingOutcomes, emailsSentTotal, emailFailuresNum)
	})
}

// Submissions exposes the submission counter labelled by timing classification.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// GradingOutcomes exposes the grading outcome counter.
func GradingOutcomes() *prometheus.CounterVec {
	RegisterMetrics()
	return gradingOutcomes
}

// EmailsSent exposes the delivered-email counter.
func EmailsSent() prometheus.Counter {
	RegisterMetrics()
	return emailsSentTotal
}

// EmailFailures exposes the failed-email counter.
func EmailFailures() prometheus.Counter {
	RegisterMetrics()
	return emailFailuresNum
}

package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// GradingDispatcher hands a submission id to the grading pipeline without the
// caller waiting on the outcome. Dispatch errors are the dispatcher's problem
// to log; they never fail the triggering request.
type GradingDispatcher interface {
	Dispatch(ctx context.Context, submissionID uint) error
}

// GradeFunc performs the actual grading of one submission.
type GradeFunc func(ctx context.Context, submissionID uint) error

type gradingJob struct {
	SubmissionID uint      `json:"submission_id"`
	EnqueuedAt   time.Time `json:"enqueued_at"`
}

// NATSDispatcher publishes grading jobs onto a NATS subject consumed by workers.
type NATSDispatcher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSDispatcher constructs a NATS-backed dispatcher.
func NewNATSDispatcher(conn *nats.Conn, subject string, logger zerolog.Logger) *NATSDispatcher {
	return &NATSDispatcher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "grading_dispatcher").Logger(),
	}
}

// Dispatch enqueues one grading job.
func (d *NATSDispatcher) Dispatch(_ context.Context, submissionID uint) error {
	payload, err := json.Marshal(gradingJob{SubmissionID: submissionID, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	return d.conn.Publish(d.subject, payload)
}

// StartConsumer subscribes a worker to the grading subject. Failed jobs are
// logged and left for manual regrade; grading is idempotent so re-delivery is safe.
func StartConsumer(conn *nats.Conn, subject string, timeout time.Duration, grade GradeFunc, logger zerolog.Logger) (*nats.Subscription, error) {
	workerLogger := logger.With().Str("component", "grading_worker").Logger()

	return conn.Subscribe(subject, func(msg *nats.Msg) {
		var job gradingJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			workerLogger.Error().Err(err).Msg("discarding malformed grading job")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := grade(ctx, job.SubmissionID); err != nil {
			workerLogger.Error().Err(err).Uint("submission_id", job.SubmissionID).Msg("grading job failed")
			return
		}

		workerLogger.Info().Uint("submission_id", job.SubmissionID).Msg("grading job completed")
	})
}

// InProcessDispatcher runs grading on a detached goroutine when no broker is
// configured. Errors are logged, never propagated to the submitting request.
type InProcessDispatcher struct {
	grade   GradeFunc
	timeout time.Duration
	logger  zerolog.Logger
}

// NewInProcessDispatcher constructs the broker-less dispatcher.
func NewInProcessDispatcher(grade GradeFunc, timeout time.Duration, logger zerolog.Logger) *InProcessDispatcher {
	return &InProcessDispatcher{
		grade:   grade,
		timeout: timeout,
		logger:  logger.With().Str("component", "grading_dispatcher").Logger(),
	}
}

// Dispatch fires grading on its own goroutine with a bounded deadline.
func (d *InProcessDispatcher) Dispatch(_ context.Context, submissionID uint) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.grade(ctx, submissionID); err != nil {
			d.logger.Error().Err(err).Uint("submission_id", submissionID).Msg("background grading failed")
			return
		}

		d.logger.Info().Uint("submission_id", submissionID).Msg("background grading completed")
	}()

	return nil
}

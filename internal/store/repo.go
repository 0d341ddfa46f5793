package store

import (
	"context"
	"time"
)

// QueryOpts configures record queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
	Lemma string    // exact lemma match when set
}

// StudyRecord is one answered blank.
type StudyRecord struct {
	Sequence  int64
	Timestamp time.Time
	SessionID string
	Lemma     string
	Reading   string
	Surface   string
	Correct   bool
	Context   string // full subtitle line
	MediaSrc  string
}

// StudyStats aggregates the study log for one lemma, or for all lemmas when
// Lemma is empty.
type StudyStats struct {
	Lemma       string
	Attempts    int
	Correct     int
	LastStudied time.Time
}

// Accuracy returns the fraction of correct attempts, or 0 with no attempts.
func (s StudyStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// StudyRepo persists the log of every test attempt.
type StudyRepo interface {
	// Save appends a record. Timestamp defaults to now.
	Save(ctx context.Context, rec StudyRecord) error

	// Stats aggregates the records for lemma. Unknown lemmas yield zero stats.
	Stats(ctx context.Context, lemma string) (StudyStats, error)

	// Totals aggregates every record.
	Totals(ctx context.Context) (StudyStats, error)

	// TopLemmas returns per-lemma stats ordered by attempt count.
	TopLemmas(ctx context.Context, limit int) ([]StudyStats, error)

	// Query returns records in sequence order.
	Query(ctx context.Context, opts QueryOpts) ([]StudyRecord, error)
}

// RecognitionAttempt is one recognition outcome for a lemma.
type RecognitionAttempt struct {
	Lemma     string
	Reading   string
	Success   bool
	Timestamp time.Time
}

// RecognitionStats summarises the recognition history of a lemma.
type RecognitionStats struct {
	Lemma                string
	Attempts             int
	Successes            int
	Failures             int
	ConsecutiveSuccesses int // trailing run of successes, newest first
	LastAttempt          time.Time
}

// FailureRate returns Failures/Attempts, or 0 with no attempts.
func (s RecognitionStats) FailureRate() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Failures) / float64(s.Attempts)
}

// RecognitionRepo persists per-lemma recognition history.
type RecognitionRepo interface {
	// Stats summarises attempts for lemma. Unknown lemmas yield zero stats.
	Stats(ctx context.Context, lemma string) (RecognitionStats, error)

	// RecordAttemptsBatch appends all attempts in a single statement.
	RecordAttemptsBatch(ctx context.Context, attempts []RecognitionAttempt) error
}

package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type recognitionRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *recognitionRepo) RecordAttemptsBatch(ctx context.Context, attempts []RecognitionAttempt) error {
	if len(attempts) == 0 {
		return nil
	}
	first, err := r.seq.Reserve(ctx, len(attempts))
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	now := time.Now().UTC()
	ins := entsql.Dialect(dialect.SQLite).
		Insert(RecognitionAttemptsTable.Name).
		Columns("sequence", "timestamp", "lemma", "reading", "success")
	for i, a := range attempts {
		ts := a.Timestamp
		if ts.IsZero() {
			ts = now
		}
		ins.Values(first+int64(i), ts.UTC(), a.Lemma, a.Reading, a.Success)
	}

	query, args := ins.Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save recognition attempts: %w", err)
	}
	return nil
}

func (r *recognitionRepo) Stats(ctx context.Context, lemma string) (RecognitionStats, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("timestamp", "success").
		From(entsql.Table(RecognitionAttemptsTable.Name)).
		Where(entsql.EQ("lemma", lemma)).
		OrderBy(entsql.Desc("sequence")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return RecognitionStats{}, fmt.Errorf("query recognition attempts: %w", err)
	}
	defer rows.Close()

	stats := RecognitionStats{Lemma: lemma}
	streak := true
	for rows.Next() {
		var (
			ts      time.Time
			success bool
		)
		if err := rows.Scan(&ts, &success); err != nil {
			return RecognitionStats{}, fmt.Errorf("scan recognition attempt: %w", err)
		}
		if stats.Attempts == 0 {
			stats.LastAttempt = ts
		}
		stats.Attempts++
		if success {
			stats.Successes++
			if streak {
				stats.ConsecutiveSuccesses++
			}
		} else {
			stats.Failures++
			streak = false
		}
	}
	return stats, rows.Err()
}

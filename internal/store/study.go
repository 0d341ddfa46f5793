package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type studyRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *studyRepo) Save(ctx context.Context, rec StudyRecord) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(StudyRecordsTable.Name).
		Columns("sequence", "timestamp", "session_id", "lemma", "reading", "surface", "correct", "context", "media_src").
		Values(seqNum, rec.Timestamp.UTC(), rec.SessionID, rec.Lemma, rec.Reading, rec.Surface, rec.Correct, rec.Context, rec.MediaSrc).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save study record: %w", err)
	}
	return nil
}

func (r *studyRepo) Stats(ctx context.Context, lemma string) (StudyStats, error) {
	stats, err := r.aggregate(ctx, entsql.EQ("lemma", lemma))
	if err != nil {
		return StudyStats{}, err
	}
	stats.Lemma = lemma
	return stats, nil
}

func (r *studyRepo) Totals(ctx context.Context) (StudyStats, error) {
	return r.aggregate(ctx, nil)
}

func (r *studyRepo) aggregate(ctx context.Context, where *entsql.Predicate) (StudyStats, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(entsql.Count("*"), entsql.Sum("correct")).
		From(entsql.Table(StudyRecordsTable.Name))
	if where != nil {
		sel.Where(where)
	}

	var (
		stats   StudyStats
		correct sql.NullInt64
	)
	query, args := sel.Query()
	if err := r.queryRow(ctx, query, args, &stats.Attempts, &correct); err != nil {
		return StudyStats{}, fmt.Errorf("aggregate study records: %w", err)
	}
	stats.Correct = int(correct.Int64)
	if stats.Attempts == 0 {
		return stats, nil
	}

	last := entsql.Dialect(dialect.SQLite).
		Select("timestamp").
		From(entsql.Table(StudyRecordsTable.Name)).
		OrderBy(entsql.Desc("sequence")).
		Limit(1)
	if where != nil {
		last.Where(where)
	}
	query, args = last.Query()
	if err := r.queryRow(ctx, query, args, &stats.LastStudied); err != nil {
		return StudyStats{}, fmt.Errorf("latest study record: %w", err)
	}
	return stats, nil
}

func (r *studyRepo) TopLemmas(ctx context.Context, limit int) ([]StudyStats, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("lemma", entsql.As(entsql.Count("*"), "attempts"), entsql.As(entsql.Sum("correct"), "correct_count")).
		From(entsql.Table(StudyRecordsTable.Name)).
		GroupBy("lemma").
		OrderBy(entsql.Desc("attempts"), "lemma")
	if limit > 0 {
		sel.Limit(limit)
	}

	var rows entsql.Rows
	query, args := sel.Query()
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query top lemmas: %w", err)
	}
	defer rows.Close()

	var out []StudyStats
	for rows.Next() {
		var (
			s       StudyStats
			correct sql.NullInt64
		)
		if err := rows.Scan(&s.Lemma, &s.Attempts, &correct); err != nil {
			return nil, fmt.Errorf("scan top lemmas: %w", err)
		}
		s.Correct = int(correct.Int64)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *studyRepo) Query(ctx context.Context, opts QueryOpts) ([]StudyRecord, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("sequence", "timestamp", "session_id", "lemma", "reading", "surface", "correct", "context", "media_src").
		From(entsql.Table(StudyRecordsTable.Name)).
		OrderBy("sequence")

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if opts.Lemma != "" {
		preds = append(preds, entsql.EQ("lemma", opts.Lemma))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	var rows entsql.Rows
	query, args := sel.Query()
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query study records: %w", err)
	}
	defer rows.Close()

	var out []StudyRecord
	for rows.Next() {
		var rec StudyRecord
		if err := rows.Scan(&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Lemma,
			&rec.Reading, &rec.Surface, &rec.Correct, &rec.Context, &rec.MediaSrc); err != nil {
			return nil, fmt.Errorf("scan study record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *studyRepo) queryRow(ctx context.Context, query string, args []any, dest ...any) error {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}
	return rows.Err()
}

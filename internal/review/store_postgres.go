package review

import (
	"context"
	"database/sql"
	"errors"

	dErrors "lineage/pkg/domain-errors"
)

// PostgresConflictStore implements ConflictStore against Postgres.
type PostgresConflictStore struct {
	db *sql.DB
}

// NewPostgresConflictStore creates a Postgres-backed conflict store.
func NewPostgresConflictStore(db *sql.DB) *PostgresConflictStore {
	return &PostgresConflictStore{db: db}
}

const conflictColumns = `id, conflict_type, status, subject_person_id, event1_id, event2_id,
	relationship1_id, relationship2_id, notes, created_at, resolved_at, resolved_by`

func (s *PostgresConflictStore) GetByID(ctx context.Context, id int64) (*Conflict, error) {
	query := `SELECT ` + conflictColumns + ` FROM conflicts WHERE id = $1`
	c, err := scanConflict(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "conflict not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query conflict")
	}
	return c, nil
}

func (s *PostgresConflictStore) Update(ctx context.Context, c *Conflict) error {
	const query = `
		UPDATE conflicts
		SET status = $2, notes = $3, resolved_at = $4, resolved_by = $5
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, c.ID, string(c.Status), c.Notes, c.ResolvedAt, c.ResolvedBy)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update conflict")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return dErrors.New(dErrors.CodeNotFound, "conflict not found")
	}
	return nil
}

func (s *PostgresConflictStore) List(ctx context.Context, status Status) ([]*Conflict, error) {
	query := `SELECT ` + conflictColumns + ` FROM conflicts
		WHERE status = $1 ORDER BY created_at, id LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, string(status), listLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query conflicts")
	}
	defer rows.Close()

	var out []*Conflict
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan conflict")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate conflicts")
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConflict(row rowScanner) (*Conflict, error) {
	var (
		c          Conflict
		subject    sql.NullInt64
		event1     sql.NullInt64
		event2     sql.NullInt64
		rel1       sql.NullInt64
		rel2       sql.NullInt64
		notes      sql.NullString
		resolvedAt sql.NullTime
		resolvedBy sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.Type, &c.Status, &subject, &event1, &event2,
		&rel1, &rel2, &notes, &c.CreatedAt, &resolvedAt, &resolvedBy)
	if err != nil {
		return nil, err
	}
	if subject.Valid {
		c.SubjectPersonID = &subject.Int64
	}
	if event1.Valid {
		c.Event1ID = &event1.Int64
	}
	if event2.Valid {
		c.Event2ID = &event2.Int64
	}
	if rel1.Valid {
		c.Relationship1ID = &rel1.Int64
	}
	if rel2.Valid {
		c.Relationship2ID = &rel2.Int64
	}
	if notes.Valid {
		c.Notes = &notes.String
	}
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}
	if resolvedBy.Valid {
		c.ResolvedBy = &resolvedBy.Int64
	}
	return &c, nil
}

// PostgresDuplicateStore implements DuplicateStore against Postgres.
type PostgresDuplicateStore struct {
	db *sql.DB
}

// NewPostgresDuplicateStore creates a Postgres-backed duplicate store.
func NewPostgresDuplicateStore(db *sql.DB) *PostgresDuplicateStore {
	return &PostgresDuplicateStore{db: db}
}

const duplicateColumns = `id, event1_id, event2_id, reason, similarity_score, status,
	notes, created_at, reviewed_at, reviewed_by`

func (s *PostgresDuplicateStore) GetByID(ctx context.Context, id int64) (*EventDuplicate, error) {
	query := `SELECT ` + duplicateColumns + ` FROM event_duplicates WHERE id = $1`
	d, err := scanDuplicate(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event duplicate not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query event duplicate")
	}
	return d, nil
}

func (s *PostgresDuplicateStore) Update(ctx context.Context, d *EventDuplicate) error {
	const query = `
		UPDATE event_duplicates
		SET status = $2, notes = $3, reviewed_at = $4, reviewed_by = $5
		WHERE id = $1`
	res, err := s.db.ExecContext(ctx, query, d.ID, string(d.Status), d.Notes, d.ReviewedAt, d.ReviewedBy)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update event duplicate")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return dErrors.New(dErrors.CodeNotFound, "event duplicate not found")
	}
	return nil
}

func (s *PostgresDuplicateStore) List(ctx context.Context, status Status) ([]*EventDuplicate, error) {
	query := `SELECT ` + duplicateColumns + ` FROM event_duplicates
		WHERE status = $1 ORDER BY created_at, id LIMIT $2`
	rows, err := s.db.QueryContext(ctx, query, string(status), listLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query event duplicates")
	}
	defer rows.Close()

	var out []*EventDuplicate
	for rows.Next() {
		d, err := scanDuplicate(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan event duplicate")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate event duplicates")
	}
	return out, nil
}

func scanDuplicate(row rowScanner) (*EventDuplicate, error) {
	var (
		d          EventDuplicate
		notes      sql.NullString
		reviewedAt sql.NullTime
		reviewedBy sql.NullInt64
	)
	err := row.Scan(&d.ID, &d.Event1ID, &d.Event2ID, &d.Reason, &d.SimilarityScore,
		&d.Status, &notes, &d.CreatedAt, &reviewedAt, &reviewedBy)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		d.Notes = &notes.String
	}
	if reviewedAt.Valid {
		d.ReviewedAt = &reviewedAt.Time
	}
	if reviewedBy.Valid {
		d.ReviewedBy = &reviewedBy.Int64
	}
	return &d, nil
}

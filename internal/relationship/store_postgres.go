package relationship

import (
	"context"
	"database/sql"

	dErrors "lineage/pkg/domain-errors"
	"lineage/pkg/platform/tx"
)

// PostgresStore implements Store and Rebuilder against Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed edge store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EdgesTouching(ctx context.Context, personID int64) ([]*Relationship, error) {
	const query = `
		SELECT id, person1_id, person2_id, relationship_type, confidence,
		       system_suggested, user_confirmed, moderator_id, source_event_id, created_at
		FROM relationships
		WHERE relationship_type IN ('parent', 'spouse')
		  AND (person1_id = $1 OR person2_id = $1)
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query relationships")
	}
	defer rows.Close()

	var out []*Relationship
	for rows.Next() {
		var (
			r          Relationship
			confidence sql.NullFloat64
			moderator  sql.NullInt64
			sourceEv   sql.NullInt64
		)
		err := rows.Scan(
			&r.ID, &r.Person1ID, &r.Person2ID, &r.Type, &confidence,
			&r.SystemSuggested, &r.UserConfirmed, &moderator, &sourceEv, &r.CreatedAt,
		)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan relationship")
		}
		if confidence.Valid {
			r.Confidence = &confidence.Float64
		}
		if moderator.Valid {
			r.ModeratorID = &moderator.Int64
		}
		if sourceEv.Valid {
			r.SourceEventID = &sourceEv.Int64
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate relationships")
	}
	return out, nil
}

// RebuildForEvent runs the stored relationship-derivation procedure. Must be
// called inside the same transaction as the participant writes it derives
// from; the transaction is taken from the context.
func (s *PostgresStore) RebuildForEvent(ctx context.Context, eventID int64) error {
	t := tx.From(ctx)
	if t == nil {
		return dErrors.New(dErrors.CodeInternal, "relationship rebuild requires a transaction")
	}
	if _, err := t.ExecContext(ctx, `SELECT build_relationships_for_event($1)`, eventID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "relationship rebuild failed")
	}
	return nil
}

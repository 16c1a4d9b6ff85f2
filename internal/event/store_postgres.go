package event

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dErrors "lineage/pkg/domain-errors"
	"lineage/pkg/platform/tx"
)

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore implements Store against Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed event store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) q(ctx context.Context) execQuerier {
	if t := tx.From(ctx); t != nil {
		return t
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, e *Event) error {
	const query = `
		INSERT INTO events (event_type, event_date, location_id, source_id, notes, original_text)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := s.q(ctx).QueryRowContext(ctx, query,
		string(e.Type), e.EventDate, e.LocationID, e.SourceID, e.Notes, e.OriginalText,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "insert event")
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*Event, error) {
	const query = `
		SELECT id, event_type, event_date, location_id, source_id, notes, original_text,
		       created_at, updated_at
		FROM events WHERE id = $1`

	e, err := scanEvent(s.q(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query event")
	}
	return e, nil
}

func (s *PostgresStore) Update(ctx context.Context, e *Event) error {
	const query = `
		UPDATE events
		SET event_date = $2, location_id = $3, source_id = $4, notes = $5,
		    original_text = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := s.q(ctx).QueryRowContext(ctx, query,
		e.ID, e.EventDate, e.LocationID, e.SourceID, e.Notes, e.OriginalText,
	).Scan(&e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "update event")
	}
	return nil
}

func (s *PostgresStore) ListByParticipant(ctx context.Context, personID int64) ([]*Event, error) {
	const query = `
		SELECT e.id, e.event_type, e.event_date, e.location_id, e.source_id, e.notes,
		       e.original_text, e.created_at, e.updated_at
		FROM events e
		JOIN event_participants ep ON ep.event_id = e.id
		WHERE ep.person_id = $1
		GROUP BY e.id
		ORDER BY e.event_date DESC NULLS LAST, e.id DESC`

	rows, err := s.q(ctx).QueryContext(ctx, query, personID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query person events")
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan event")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate events")
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var (
		e        Event
		date     sql.NullTime
		location sql.NullInt64
		source   sql.NullInt64
		notes    sql.NullString
		raw      []byte
	)
	err := row.Scan(&e.ID, &e.Type, &date, &location, &source, &notes, &raw,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if date.Valid {
		t := date.Time.UTC().Truncate(24 * time.Hour)
		e.EventDate = &t
	}
	if location.Valid {
		e.LocationID = &location.Int64
	}
	if source.Valid {
		e.SourceID = &source.Int64
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	e.OriginalText = raw
	return &e, nil
}

// PostgresParticipantStore implements ParticipantStore against Postgres.
type PostgresParticipantStore struct {
	db *sql.DB
}

// NewPostgresParticipantStore creates a Postgres-backed participant store.
func NewPostgresParticipantStore(db *sql.DB) *PostgresParticipantStore {
	return &PostgresParticipantStore{db: db}
}

func (s *PostgresParticipantStore) q(ctx context.Context) execQuerier {
	if t := tx.From(ctx); t != nil {
		return t
	}
	return s.db
}

func (s *PostgresParticipantStore) ListByEventRole(ctx context.Context, eventID, roleID int64) ([]*Participant, error) {
	const query = `
		SELECT id, event_id, person_id, role_id, additional_info
		FROM event_participants
		WHERE event_id = $1 AND role_id = $2
		ORDER BY id`
	return s.list(ctx, query, eventID, roleID)
}

func (s *PostgresParticipantStore) ListByEvent(ctx context.Context, eventID int64) ([]*Participant, error) {
	const query = `
		SELECT id, event_id, person_id, role_id, additional_info
		FROM event_participants
		WHERE event_id = $1
		ORDER BY id`
	return s.list(ctx, query, eventID)
}

func (s *PostgresParticipantStore) list(ctx context.Context, query string, args ...any) ([]*Participant, error) {
	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query participants")
	}
	defer rows.Close()

	var out []*Participant
	for rows.Next() {
		var (
			p    Participant
			info sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.EventID, &p.PersonID, &p.RoleID, &info); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan participant")
		}
		if info.Valid {
			p.AdditionalInfo = &info.String
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate participants")
	}
	return out, nil
}

func (s *PostgresParticipantStore) Insert(ctx context.Context, p *Participant) error {
	const query = `
		INSERT INTO event_participants (event_id, person_id, role_id, additional_info)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := s.q(ctx).QueryRowContext(ctx, query, p.EventID, p.PersonID, p.RoleID, p.AdditionalInfo).
		Scan(&p.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "insert participant")
	}
	return nil
}

func (s *PostgresParticipantStore) Update(ctx context.Context, p *Participant) error {
	const query = `
		UPDATE event_participants
		SET person_id = $2, additional_info = $3
		WHERE id = $1`
	res, err := s.q(ctx).ExecContext(ctx, query, p.ID, p.PersonID, p.AdditionalInfo)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "update participant")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return dErrors.New(dErrors.CodeNotFound, "participant not found")
	}
	return nil
}

func (s *PostgresParticipantStore) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM event_participants WHERE id = $1`
	if _, err := s.q(ctx).ExecContext(ctx, query, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete participant")
	}
	return nil
}

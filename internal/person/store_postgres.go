package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	dErrors "lineage/pkg/domain-errors"
	"lineage/pkg/platform/tx"
)

const personColumns = `id, first_name_id, last_name_id, patronymic_id, gender,
	birth_date, death_date, estimated_birth_year, estimated_death_year,
	visibility, owner_user_id, notes, created_at, updated_at`

// PostgresStore implements Store against Postgres. Visibility filtering
// happens in SQL so non-admitted rows never cross the wire.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed person store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if t := tx.From(ctx); t != nil {
		return t
	}
	return s.db
}

// visibilityClause renders the scope as a WHERE fragment. args is extended
// with the owner id when one applies.
func visibilityClause(scope Scope, args []any) (string, []any) {
	if scope.AdmitsAll() {
		return "", args
	}
	if uid, ok := scope.UserID(); ok {
		args = append(args, uid)
		return fmt.Sprintf(" AND (visibility = 'PUBLIC' OR owner_user_id = $%d)", len(args)), args
	}
	return " AND visibility = 'PUBLIC'", args
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64, scope Scope) (*Person, error) {
	args := []any{id}
	clause, args := visibilityClause(scope, args)
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1` + clause

	p, err := scanPerson(s.q(ctx).QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query person")
	}
	return p, nil
}

func (s *PostgresStore) ListByIDs(ctx context.Context, ids []int64, scope Scope) ([]*Person, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(ids)+1)
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	clause, args := visibilityClause(scope, args)
	query := `SELECT ` + personColumns + ` FROM persons WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)` + clause

	rows, err := s.q(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query persons")
	}
	defer rows.Close()

	var out []*Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan person")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate persons")
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*Person, error) {
	var (
		p          Person
		firstName  sql.NullInt64
		lastName   sql.NullInt64
		patronymic sql.NullInt64
		birthDate  sql.NullTime
		deathDate  sql.NullTime
		birthYear  sql.NullInt64
		deathYear  sql.NullInt64
		owner      sql.NullInt64
		notes      sql.NullString
	)
	err := row.Scan(
		&p.ID, &firstName, &lastName, &patronymic, &p.Gender,
		&birthDate, &deathDate, &birthYear, &deathYear,
		&p.Visibility, &owner, &notes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if firstName.Valid {
		p.FirstNameID = &firstName.Int64
	}
	if lastName.Valid {
		p.LastNameID = &lastName.Int64
	}
	if patronymic.Valid {
		p.PatronymicID = &patronymic.Int64
	}
	if birthDate.Valid {
		p.BirthDate = &birthDate.Time
	}
	if deathDate.Valid {
		p.DeathDate = &deathDate.Time
	}
	if birthYear.Valid {
		y := int(birthYear.Int64)
		p.EstimatedBirthYear = &y
	}
	if deathYear.Valid {
		y := int(deathYear.Int64)
		p.EstimatedDeathYear = &y
	}
	if owner.Valid {
		p.OwnerUserID = &owner.Int64
	}
	if notes.Valid {
		p.Notes = &notes.String
	}
	return &p, nil
}

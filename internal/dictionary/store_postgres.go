package dictionary

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	dErrors "lineage/pkg/domain-errors"
)

var kindTables = map[Kind]string{
	KindFirstName:  "dict_first_names",
	KindLastName:   "dict_last_names",
	KindPatronymic: "dict_patronymics",
}

// PostgresStore reads the dictionary tables.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed dictionary store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Lookup(ctx context.Context, kind Kind, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}
	table, ok := kindTables[kind]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeInternal, "unknown dictionary kind %q", kind)
	}

	args := make([]any, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}

	query := `SELECT id, value FROM ` + table + ` WHERE id IN (` + strings.Join(placeholders, ", ") + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "query dictionary")
	}
	defer rows.Close()

	out := make(map[int64]string, len(ids))
	for rows.Next() {
		var (
			id    int64
			value string
		)
		if err := rows.Scan(&id, &value); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan dictionary row")
		}
		out[id] = value
	}
	if err := rows.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "iterate dictionary rows")
	}
	return out, nil
}

package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation reports a foreign key violation (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// nullable maps the empty id used by entities to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// text selects a uuid or nullable column as text, empty when NULL.
func text(col string) string {
	return "COALESCE(" + col + "::text, '')"
}

// prefixed qualifies a select column, including ones wrapped by text.
func prefixed(alias, col string) string {
	const wrap = "COALESCE("
	if strings.HasPrefix(col, wrap) {
		return wrap + alias + "." + strings.TrimPrefix(col, wrap)
	}
	return alias + "." + col
}

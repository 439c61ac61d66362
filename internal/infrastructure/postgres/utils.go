package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código de PostgreSQL para violación de constraint único.
const pgUniqueViolation = "23505"

// isUniqueViolation indica si el error proviene de una violación de índice único.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

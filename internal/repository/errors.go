package repository

import (
	stderrors "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = stderrors.New("record not found")

// IsUniqueConstraintError reports whether err is a unique-key violation on
// either Postgres (SQLSTATE 23505) or SQLite.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique failed")
}

// ErrDuplicate is returned when a write would break a uniqueness invariant.
var ErrDuplicate = stderrors.New("duplicate record")

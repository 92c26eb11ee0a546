// internal/repository/repository.go
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Page size bounds for cursor-paginated scans.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

func clampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// isUniqueViolation reports whether err is a unique-index violation
// raised by the database. Concurrent creates racing on the same key
// surface through here as domain.ErrAlreadyExists to callers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Package repository implements the data access layer for the application.
package repository

import (
	"errors"
	"strings"

	"toolkit/internal/database"
	"toolkit/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// IsUniqueViolation reports whether err came from a unique constraint. It recognizes the
// translated GORM error, a raw pgconn error and the SQLite driver message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

// notFoundOr converts gorm.ErrRecordNotFound into a NotFoundError for entity and
// wraps anything else as an internal error.
func notFoundOr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(entity)
	}
	return models.NewInternalError(err)
}

// writeErr converts a write failure, mapping unique violations to a ConflictError with msg.
func writeErr(err error, msg string) error {
	if IsUniqueViolation(err) {
		return models.NewConflictError(msg)
	}
	return models.NewInternalError(err)
}

// countRow is the scan target for grouped COUNT queries.
type countRow struct {
	GroupKey uint
	Total    int64
}

func countsByKey(rows []countRow) map[uint]int64 {
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.GroupKey] = r.Total
	}
	return out
}

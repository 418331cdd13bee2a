// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"devconnect/internal/models"
	"devconnect/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// ErrStaleWrite is returned when a versioned update matched no row because
// another request saved the document first.
var ErrStaleWrite = errors.New("stale write")

// observe starts a span and a latency timer around a repository call.
// The returned func must be called with the call's final error.
func observe(ctx context.Context, method, table string) (context.Context, func(error)) {
	ctx, span := observability.StartRepositorySpan(ctx, method, table)
	done := observability.TrackQuery(method, table)
	return ctx, func(err error) {
		done()
		observability.EndSpan(span, err)
	}
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// notFoundOr maps gorm.ErrRecordNotFound to a NotFound AppError carrying msg
// and anything else to an internal error.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(msg)
	}
	return models.NewInternalError(err)
}

// versionedUpdate writes columns of row only if the stored version still
// equals expected, bumping it by one.
func versionedUpdate(db *gorm.DB, model, row interface{}, id, expected uint, document string, columns ...string) error {
	res := db.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Select(append(append([]string{}, columns...), "version")).
		Updates(row)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		observability.RecordStaleWrite(document)
		return models.NewStaleWriteError(document, ErrStaleWrite)
	}
	return nil
}

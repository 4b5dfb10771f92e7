// Package service implements the social graph and engagement ledger on top of the repositories.
package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"ruya/internal/database"
	"ruya/internal/models"
	"ruya/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// TxRunner runs fn inside one database transaction carried by ctx.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier turns domain events into notification rows. It must be called
// inside the transaction of the mutation that produced the event.
type Notifier interface {
	Emit(ctx context.Context, event models.NotificationEvent) error
}

// track opens the span of a top-level mutation. The returned func ends the
// span and counts the outcome once; nested steps are not tracked separately.
func track(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := observability.StartSpan(ctx, "social."+operation, attrs...)
	return ctx, func(err error) {
		span.End(err)
		observability.RecordMutation(operation, err)
	}
}

func idAttr(key string, id uint) attribute.KeyValue {
	return attribute.Int64(key, int64(id))
}

// notFound maps a missing row onto a NotFound AppError and passes other errors through.
func notFound(err error, resource string, id interface{}, reason string) error {
	if database.IsNotFound(err) {
		appErr := models.NewNotFoundError(resource, id)
		if reason != "" {
			appErr = appErr.WithReason(reason)
		}
		return appErr
	}
	return err
}

// conflictOn maps a unique violation onto a Conflict AppError.
func conflictOn(err error, reason, message string) error {
	if database.IsUniqueViolation(err) {
		return models.NewConflictError(reason, message)
	}
	return err
}

// validateText trims s and checks its length in runes.
func validateText(s, field string, minLen, maxLen int) (string, error) {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	if n < minLen {
		return "", models.NewValidationError(field + " is required")
	}
	if n > maxLen {
		return "", models.NewValidationError(field + " is too long")
	}
	return s, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

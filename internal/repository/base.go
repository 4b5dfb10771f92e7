// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"ruya/internal/database"
	"ruya/internal/models"

	"gorm.io/gorm"
)

// conn returns the transaction in ctx, or the primary connection.
func conn(ctx context.Context, primary *gorm.DB) *gorm.DB {
	return database.Conn(ctx, primary)
}

func paginate(q *gorm.DB, page models.Page) *gorm.DB {
	return q.Limit(page.PageSize).Offset(page.Offset())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a lowercase LIKE pattern matching s anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

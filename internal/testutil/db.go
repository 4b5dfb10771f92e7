// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"ruya/internal/database"
	"ruya/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t.
// A single connection keeps every statement on the same in-memory database.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// NewFileDB returns a migrated SQLite database in a temporary file that
// several connections can share. WAL, a busy timeout and BEGIN IMMEDIATE let
// concurrent transactions queue for the write lock instead of failing.
func NewFileDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ruya.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate", path)
	db, err := database.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

var seq atomic.Uint64

func next() uint64 {
	return seq.Add(1)
}

// CreateUser inserts an active user with a unique username derived from name.
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	n := next()
	u := &models.User{
		Username: fmt.Sprintf("%s%d", name, n),
		Email:    fmt.Sprintf("%s%d@example.com", name, n),
		FullName: name + " Dreamer",
		IsActive: true,
		Role:     models.UserRoleUser,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateDream inserts a dream owned by userID.
func CreateDream(t testing.TB, db *gorm.DB, userID uint) *models.Dream {
	t.Helper()
	d := &models.Dream{
		UserID:      userID,
		Title:       fmt.Sprintf("Dream %d", next()),
		Description: "Walking through a garden of light",
		Privacy:     models.DreamPrivacyPublic,
	}
	require.NoError(t, db.Create(d).Error)
	return d
}

// CreatePost inserts a post for a fresh dream of userID, bypassing services.
func CreatePost(t testing.TB, db *gorm.DB, userID uint) *models.Post {
	t.Helper()
	d := CreateDream(t, db, userID)
	p := &models.Post{UserID: userID, DreamID: d.ID, Caption: "caption"}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Count returns the number of rows of model matching the optional condition.
func Count(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// Reload refetches dest by primary key.
func Reload(t testing.TB, db *gorm.DB, dest interface{}, id uint) {
	t.Helper()
	require.NoError(t, db.First(dest, id).Error)
}

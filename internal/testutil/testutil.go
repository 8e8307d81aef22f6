// Package testutil provides shared helpers for package tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"school-service/internal/model"
)

var dbSeq atomic.Int64

// NewDB opens an isolated in-memory database migrated with the domain models.
// Each call gets its own named memory database so parallel tests never share
// state.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.School{},
		&model.Student{},
		&model.Guardian{},
		&model.UserProfile{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}

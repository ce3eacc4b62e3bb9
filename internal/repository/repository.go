// Package repository implements GORM-backed data access for the board's
// domain types.
package repository

import (
	"gorm.io/gorm"

	"community-board-api/internal/database"
)

// conn resolves the handle queries run on. Repositories built while the
// async connector is still retrying hold a nil handle, so fall back to the
// global connection once it is up.
func conn(db *gorm.DB) *gorm.DB {
	if db != nil {
		return db
	}
	return database.GetDB()
}

// Package database persists exported Atlassian content in SQLite via GORM.
// All writes are upserts keyed by the source system's immutable API ID; a
// second upsert with the same ID fully overwrites the prior row.
package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/atlas-export/internal/entities"
)

type Database struct {
	db *gorm.DB
}

// NewDatabase opens (creating if needed) the store at dbPath with WAL
// journaling and foreign-key enforcement, and migrates the schema.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := dbPath + "?_journal_mode=WAL&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Project{},
		&entities.Issue{},
		&entities.Comment{},
		&entities.IssueLink{},
		&entities.FieldDefinition{},
		&entities.Space{},
		&entities.Page{},
		&entities.PageComment{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Stats holds row counts for the issue-tracking subsystem.
type Stats struct {
	Projects int64 `json:"projects"`
	Issues   int64 `json:"issues"`
	Comments int64 `json:"comments"`
	Links    int64 `json:"links"`
}

// ConfluenceStats holds row counts for the document-space subsystem.
type ConfluenceStats struct {
	Spaces   int64 `json:"spaces"`
	Pages    int64 `json:"pages"`
	Comments int64 `json:"comments"`
}

func (d *Database) Stats() (*Stats, error) {
	var stats Stats
	if err := d.db.Model(&entities.Project{}).Count(&stats.Projects).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&entities.Issue{}).Count(&stats.Issues).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&entities.Comment{}).Count(&stats.Comments).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&entities.IssueLink{}).Count(&stats.Links).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (d *Database) ConfluenceStats() (*ConfluenceStats, error) {
	var stats ConfluenceStats
	if err := d.db.Model(&entities.Space{}).Count(&stats.Spaces).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&entities.Page{}).Count(&stats.Pages).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&entities.PageComment{}).Count(&stats.Comments).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/541v4r54n/Web-Security-Experiment/models"
)

var DB *gorm.DB

// Connect opens the sqlite database with foreign key enforcement enabled.
func Connect(dbPath string) error {
	dsn := dbPath + "?_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("open database %s: %w", dbPath, err)
	}
	DB = db
	return nil
}

// Migrate creates or updates the schema and seeds the lab fixture table.
func Migrate() error {
	if err := DB.AutoMigrate(
		&models.User{},
		&models.AuditLog{},
		&models.Image{},
		&models.Note{},
	); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return seedNotes()
}

// seedNotes inserts the SQL injection lab fixtures once, on an empty table.
func seedNotes() error {
	var count int64
	if err := DB.Model(&models.Note{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	notes := []models.Note{
		{Title: "Welcome", Content: "This table is used for SQL injection lab."},
		{Title: "Todo", Content: "Try: %' OR 1=1 --  (in the insecure search)"},
		{Title: "Defense", Content: "Use parameterized queries to prevent injection."},
	}
	return DB.Create(&notes).Error
}

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/soletta-dev/postpilot/db/models"
	"github.com/soletta-dev/postpilot/logger"
	_ "modernc.org/sqlite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database represents the database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the publish archive database under dataDir.
func NewDatabase(dataDir string) (*Database, error) {
	dbPath := filepath.Join(dataDir, "postpilot.db")

	if err := checkDatabase(dbPath); err != nil {
		return nil, fmt.Errorf("archive database failed integrity check: %w", err)
	}

	logConfig := gormlogger.Config{
		LogLevel: gormlogger.Warn, // Log only warnings and errors
		Colorful: true,
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.New(
			logger.Logger,
			logConfig,
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.PublishedPost{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Database{DB: db}, nil
}

// checkDatabase runs a quick integrity check on an existing archive file
// before handing it to the ORM. A missing file is fine, AutoMigrate will
// create it.
func checkDatabase(dbPath string) error {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil
	}

	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	var result string
	if err := sqlDB.QueryRow("PRAGMA quick_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("quick_check reported: %s", result)
	}
	return nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"document-review-api/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN builds the MySQL data source name from DB_* variables.
func DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		EnvString("DB_PORT", "3306"),
		os.Getenv("DB_DATABASE"),
	)
}

// GormConfig returns the shared gorm configuration. SQL statements are logged at info level
// except in production, where DEBUG_SQL=true re-enables them.
func GormConfig() *gorm.Config {
	debugSQL := strings.ToLower(os.Getenv("DEBUG_SQL"))

	logLevel := logger.Info
	if IsProduction() && debugSQL != "true" {
		logLevel = logger.Warn
	}

	return &gorm.Config{
		Logger: logger.New(
			log.New(LogWriter, "\r\n", log.LstdFlags),
			logger.Config{LogLevel: logLevel},
		),
	}
}

// OpenDB connects to MySQL without touching the package-level handle.
func OpenDB() (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(DSN()), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

func InitDB() {
	db, err := OpenDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	DB = db
	Logger.Info("database connected", "host", os.Getenv("DB_HOST"), "database", os.Getenv("DB_DATABASE"))
}

// Migrate creates or updates the review workflow tables.
func Migrate(db *gorm.DB) error {
	if db == nil {
		db = DB
	}
	if err := db.AutoMigrate(models.WorkflowModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

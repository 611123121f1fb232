package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"storefront-be/internal/config"

	_ "github.com/lib/pq"
)

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
}

// NewDatabase opens the shared connection pool. The returned handle is the
// single store-access object; it is passed into every repository explicitly.
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	return newDatabaseWithDriver(cfg, "postgres")
}

func newDatabaseWithDriver(cfg *config.Config, driver string) (*sql.DB, error) {
	db, err := sql.Open(driver, buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// InitDB is the fail-fast variant used at process startup.
func InitDB(cfg *config.Config) *sql.DB {
	db, err := NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	log.Println("Database connection established")
	return db
}

package config

import (
	"cloud-drive/internal/logging"
	"cloud-drive/internal/migrations"
	"context"
	"fmt"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"time"
)

type Database struct {
	*sqlx.DB
}

func NewDatabaseConnection(dbDriver string, dbConnectionStr string, maxOpenConns int) (*Database, error) {
	database, err := sqlx.Connect(dbDriver, dbConnectionStr)
	if err != nil {
		return nil, fmt.Errorf("database connect: %w", err)
	}

	if maxOpenConns > 0 {
		database.SetMaxOpenConns(maxOpenConns)
		database.SetMaxIdleConns(maxOpenConns / 5)
	}
	database.SetConnMaxLifetime(5 * time.Minute)

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	logging.Info("[Database] connection established")
	return &Database{
		database,
	}, nil
}

// RunMigrations : applies the embedded goose migrations
func (db *Database) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db.DB.DB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	logging.Info("[Database] migrations applied")
	return nil
}

func (db *Database) Close() error {
	err := db.DB.Close()
	if err != nil {
		return fmt.Errorf("database close: %w", err)
	}

	return nil
}

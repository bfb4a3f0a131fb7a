package database

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"microblog/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type MethodsDB interface {
	CloseDB() error
	RunMigrations() error
	HealthCheck(ctx context.Context) error
}

type DB struct {
	*sqlx.DB
	log *logrus.Logger
}

func dataSourceName(cfg config.DB) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
		int(cfg.ConnectTimeout.Seconds()),
	)
}

// ConnectDB opens the pool, applies pending migrations and pings the server.
func ConnectDB(cfg *config.Config, log *logrus.Logger) (*DB, error) {
	log.WithFields(logrus.Fields{"host": cfg.DB.Host, "dbname": cfg.DB.Name}).Info("connecting to database")

	db, err := sqlx.Connect("postgres", dataSourceName(cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	configurePool(db, cfg.DB)

	dbStruct := &DB{DB: db, log: log}

	if err := dbStruct.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.ConnectTimeout)
	defer cancel()
	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("connected to PostgreSQL")
	return dbStruct, nil
}

func configurePool(db *sqlx.DB, cfg config.DB) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

// RunMigrations applies the embedded migrations up to the latest version.
func (db *DB) RunMigrations() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err == nil {
		db.log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("migrations applied")
	}
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return errors.New("database connection is not initialized")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

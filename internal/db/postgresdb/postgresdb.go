// Package postgresdb provides a PostgreSQL-based profile store.
// The schema is managed by goose migrations.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/profiledel/internal/models"
)

var sqlOpen = sql.Open

// PostgresDB is a PostgreSQL-backed profile store.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset drops every table before migrating. Tests use it to start clean.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New connects to the database and runs the migrations found in migrationsDir.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sqlOpen("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := result.prepare(ctx, options, migrationsDir); err != nil {
		return nil, errors.Join(err, database.Close())
	}

	return result, nil
}

func (db *PostgresDB) prepare(ctx context.Context, options *initOptions, migrationsDir string) error {
	if options.DBPreReset {
		if err := db.resetDB(ctx); err != nil {
			return fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/prepare(): error while `db.resetDB()` calling: %w",
				err,
			)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/prepare(): error while `goose.SetDialect()` calling: %w",
			err,
		)
	}

	if err := goose.UpContext(ctx, db.database, migrationsDir); err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/prepare(): error while `goose.UpContext()` calling: %w",
			err,
		)
	}

	return nil
}

// RemoveProfile deletes the profile row or returns models.ErrProfileNotFound.
func (db *PostgresDB) RemoveProfile(ctx context.Context, userID string) error {
	result, err := db.database.ExecContext(
		ctx,
		`DELETE FROM user_profiles WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/RemoveProfile(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrProfileNotFound
	}

	return nil
}

// AddProfiles inserts profiles in one statement, skipping IDs that already exist.
func (db *PostgresDB) AddProfiles(ctx context.Context, profiles []models.UserProfile) error {
	if len(profiles) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(profiles))
	placeholders := make([]string, 0, len(profiles))
	for i, profile := range profiles {
		createdAt := profile.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		rows = append(rows, []interface{}{profile.ID, createdAt})
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
	}
	queryParams := funk.Flatten(rows).([]interface{})

	_, err := db.database.ExecContext(
		ctx,
		`INSERT INTO user_profiles (id, created_at) VALUES `+
			strings.Join(placeholders, ", ")+
			` ON CONFLICT (id) DO NOTHING`,
		queryParams...,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/AddProfiles(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}

	return nil
}

// HasProfile reports whether a profile with userID exists.
func (db *PostgresDB) HasProfile(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := db.database.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM user_profiles WHERE id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}

// Ping checks the connection within the configured connection timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf(
			"in internal/db/postgresdb/postgresdb.go/resetDB(): error while `db.database.ExecContext()` calling: %w",
			err,
		)
	}
	return nil
}

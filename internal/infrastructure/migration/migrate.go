package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// schemaTable keeps the migration bookkeeping apart from application tables.
const schemaTable = "stockroom_schema_migrations"

// Migrator applies the SQL files under migrations/ to a postgres database.
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// Status is the applied schema version. Version 0 means nothing is applied.
type Status struct {
	Version uint
	Dirty   bool
}

// New builds a Migrator on an open connection. The caller keeps ownership of db
// until Close is called, which closes it.
func New(db *sql.DB, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: schemaTable})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migration source %s: %w", migrationsPath, err)
	}
	return newMigrator(m, log), nil
}

// NewFromURL builds a Migrator from a postgres URL.
func NewFromURL(databaseURL, migrationsPath string, log *zap.Logger) (*Migrator, error) {
	m, err := migrate.New("file://"+migrationsPath, databaseURL+withSchemaTable(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("migration source %s: %w", migrationsPath, err)
	}
	return newMigrator(m, log), nil
}

func newMigrator(m *migrate.Migrate, log *zap.Logger) *Migrator {
	if log == nil {
		log = zap.NewNop()
	}
	m.Log = &migrateLogger{log: log}
	return &Migrator{m: m, log: log.Named("migrate")}
}

func withSchemaTable(url string) string {
	for i := 0; i < len(url); i++ {
		if url[i] == '?' {
			return "&x-migrations-table=" + schemaTable
		}
	}
	return "?x-migrations-table=" + schemaTable
}

// Up applies every pending migration.
func (r *Migrator) Up() error {
	return r.run("up", r.m.Up)
}

// Down rolls back every applied migration.
func (r *Migrator) Down() error {
	return r.run("down", r.m.Down)
}

// Steps applies n migrations forward, or rolls back when n is negative.
func (r *Migrator) Steps(n int) error {
	return r.run(fmt.Sprintf("steps %d", n), func() error { return r.m.Steps(n) })
}

// GoTo migrates up or down to version.
func (r *Migrator) GoTo(version uint) error {
	return r.run(fmt.Sprintf("goto %d", version), func() error { return r.m.Migrate(version) })
}

// Status reports the applied version.
func (r *Migrator) Status() (Status, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("read schema version: %w", err)
	}
	return Status{Version: v, Dirty: dirty}, nil
}

// Force records version as applied without running anything. It clears the dirty flag
// after a failed migration was repaired by hand.
func (r *Migrator) Force(version int) error {
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	r.log.Warn("schema version forced", zap.Int("version", version))
	return nil
}

// Drop removes every object in the database.
func (r *Migrator) Drop() error {
	if err := r.m.Drop(); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	r.log.Warn("schema dropped")
	return nil
}

// Close releases the source and database handles.
func (r *Migrator) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (r *Migrator) run(op string, fn func() error) error {
	before, _ := r.Status()
	err := fn()
	if errors.Is(err, migrate.ErrNoChange) {
		r.log.Info("schema up to date", zap.String("op", op), zap.Uint("version", before.Version))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate %s: %w", op, err)
	}
	after, _ := r.Status()
	r.log.Info("schema migrated",
		zap.String("op", op),
		zap.Uint("from", before.Version),
		zap.Uint("to", after.Version),
	)
	return nil
}

// migrateLogger routes golang-migrate's own progress lines to zap at debug level.
type migrateLogger struct {
	log *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Debug(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return l.log.Core().Enabled(zap.DebugLevel)
}

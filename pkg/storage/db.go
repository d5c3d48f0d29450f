package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"vkscan/pkg/logger"
	"vkscan/pkg/retry"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// DB is the single shared database handle. It holds one open connection and
// runs every statement in auto-commit mode.
type DB struct {
	*sql.DB
	driver string
}

// Open connects to the database and verifies the connection
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		dsn = withForeignKeys(dsn)
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One long-lived connection. For in-memory SQLite this also keeps every
	// statement on the same database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := ping(ctx, sqlDB, driver); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{DB: sqlDB, driver: driver}, nil
}

// ping verifies the connection. A Postgres server that is still starting
// gets a few attempts with exponential backoff.
func ping(ctx context.Context, sqlDB *sql.DB, driver string) error {
	cfg := &retry.Config{
		MaxAttempts: 1,
		Backoff:     retry.DefaultExponentialBackoff(),
		Context:     ctx,
		Logger:      logger.GetLogger().WithField("component", "storage"),
	}
	if driver == DriverPostgres {
		cfg.MaxAttempts = 5
	}
	return retry.Do(func() error {
		return sqlDB.PingContext(ctx)
	}, cfg)
}

// Driver returns the database/sql driver name
func (db *DB) Driver() string {
	return db.driver
}

// withForeignKeys makes SQLite enforce foreign keys on the connection.
// SQLite leaves them off unless asked.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Migrate applies all pending schema migrations
func (db *DB) Migrate(ctx context.Context) error {
	log := logger.GetLogger().WithField("component", "migrate")
	goose.SetLogger(logger.GooseLogger{L: log})
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(db.gooseDialect()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// SchemaVersion returns the latest applied migration version
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	goose.SetBaseFS(migrationsFS)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(db.gooseDialect()); err != nil {
		return 0, fmt.Errorf("migrate: %w", err)
	}
	return goose.GetDBVersionContext(ctx, db.DB)
}

func (db *DB) gooseDialect() string {
	if db.driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// rebind rewrites ? placeholders as $N for PostgreSQL
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

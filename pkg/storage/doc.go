// Package storage persists users, videos and their links.
//
// The schema has three tables: users, videos and uservideo. It is created
// by goose migrations embedded in the binary. Two drivers are supported:
//   - "sqlite" (modernc.org/sqlite, pure Go), the default
//   - "pgx" (jackc/pgx stdlib) for PostgreSQL
//
// All writes are idempotent: inserting a row whose key already exists is a
// no-op and never updates the stored values. Each write commits on its own,
// so rows stored before a failure stay stored.
//
// Usage:
//
//	db, err := storage.Open(ctx, storage.DriverSQLite, "vkscan.db")
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
//	store := storage.NewStore(db)
//	err = store.UpsertUser(ctx, 42, "alice")
package storage

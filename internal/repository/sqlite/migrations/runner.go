package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
)

const ledgerDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	filename   TEXT PRIMARY KEY,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Run brings db up to date with the embedded schema files.
func Run(ctx context.Context, db *sql.DB) error {
	return runFS(ctx, db, FS)
}

// Pending names the embedded schema files db has not applied, oldest first.
func Pending(ctx context.Context, db *sql.DB) ([]string, error) {
	return pendingFS(ctx, db, FS)
}

func runFS(ctx context.Context, db *sql.DB, fsys fs.FS) error {
	todo, err := pendingFS(ctx, db, fsys)
	if err != nil {
		return err
	}
	for _, name := range todo {
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := applyOne(ctx, db, name, string(body)); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	if len(todo) > 0 {
		slog.Info("schema updated", "applied", todo)
	}
	return nil
}

func pendingFS(ctx context.Context, db *sql.DB, fsys fs.FS) ([]string, error) {
	if _, err := db.ExecContext(ctx, ledgerDDL); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	done, err := ledger(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	// fs.Glob returns names in lexical order.
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list schema files: %w", err)
	}
	todo := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := done[name]; !ok {
			todo = append(todo, name)
		}
	}
	return todo, nil
}

// ledger returns the set of recorded filenames.
func ledger(ctx context.Context, db *sql.DB) (map[string]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT filename FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		done[name] = struct{}{}
	}
	return done, rows.Err()
}

// applyOne runs a schema file and records it atomically.
func applyOne(ctx context.Context, db *sql.DB, name, body string) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations (filename) VALUES (?)`, name); err != nil {
		return err
	}
	return tx.Commit()
}

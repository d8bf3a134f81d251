package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warungpos/warung-pos/internal/domain"
)

// OpenSQLite opens (or creates) the embedded database at path and migrates
// the schema. Use ":memory:" for a throwaway database. Records are stored
// as JSON documents under their primary key; secondary lookups go through
// Table.Query, which scans and filters.
func OpenSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single writer keeps the createOrder critical section sequential.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Store{
		Products:   newSQLiteTable[domain.Product](db, "products"),
		Categories: newSQLiteTable[domain.Category](db, "categories"),
		Vendors:    newSQLiteTable[domain.Vendor](db, "vendors"),
		Orders:     newSQLiteTable[domain.Order](db, "orders"),
		OrderItems: newSQLiteTable[domain.OrderItem](db, "order_items"),
		Status:     newSQLiteTable[domain.SyncStatus](db, "sync_status"),
		closer:     db.Close,
	}, nil
}

func migrate(db *sql.DB) error {
	for _, table := range []string{
		"products", "categories", "vendors", "orders", "order_items", "sync_status",
	} {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id  TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		)`, table)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}

type sqliteTable[T Keyed] struct {
	db    *sql.DB
	table string
}

func newSQLiteTable[T Keyed](db *sql.DB, table string) *sqliteTable[T] {
	return &sqliteTable[T]{db: db, table: table}
}

func (t *sqliteTable[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	var doc string
	err := t.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, t.table), id,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s/%s: %w", t.table, id, err)
	}
	var rec T
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return zero, false, fmt.Errorf("decode %s/%s: %w", t.table, id, err)
	}
	return rec, true, nil
}

func (t *sqliteTable[T]) Put(ctx context.Context, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", t.table, rec.Key(), err)
	}
	_, err = t.db.ExecContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, doc) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`, t.table),
		rec.Key(), string(doc))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", t.table, rec.Key(), err)
	}
	return nil
}

func (t *sqliteTable[T]) BulkPut(ctx context.Context, recs []T) error {
	if len(recs) == 0 {
		return nil
	}
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := fmt.Sprintf(
		`INSERT INTO %s (id, doc) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`, t.table)
	for _, rec := range recs {
		doc, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", t.table, rec.Key(), err)
		}
		if _, err := tx.ExecContext(ctx, stmt, rec.Key(), string(doc)); err != nil {
			return fmt.Errorf("bulk put %s/%s: %w", t.table, rec.Key(), err)
		}
	}
	return tx.Commit()
}

func (t *sqliteTable[T]) Query(ctx context.Context, pred func(T) bool) ([]T, error) {
	rows, err := t.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s`, t.table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.table, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var rec T
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", t.table, err)
		}
		if pred == nil || pred(rec) {
			out = append(out, rec)
		}
	}
	return out, rows.Err()
}

func (t *sqliteTable[T]) Delete(ctx context.Context, id string) error {
	_, err := t.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.table), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", t.table, id, err)
	}
	return nil
}

func (t *sqliteTable[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.table, err)
	}
	return n, nil
}

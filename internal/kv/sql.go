package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQL is a Backend over a relational database.  Each map is a two-column
// table kv_<name>; cells share the kv_cells table.  Only portable SQL is
// used so the same code runs on MySQL and SQLite.
type SQL struct {
	db *sqlx.DB
}

// NewSQL returns a Backend storing its data in db.
func NewSQL(db *sqlx.DB) *SQL { return &SQL{db: db} }

const createCells = `CREATE TABLE IF NOT EXISTS kv_cells (
	name VARCHAR(64) NOT NULL PRIMARY KEY,
	v BIGINT UNSIGNED NOT NULL
)`

func (b *SQL) Map(ctx context.Context, name string) (SortedMap, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	table := "kv_" + name
	ddl := `CREATE TABLE IF NOT EXISTS ` + table + ` (
	k BIGINT UNSIGNED NOT NULL PRIMARY KEY,
	v BLOB NOT NULL
)`
	if _, err := b.db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("kv: create table %s: %w", table, err)
	}
	return &sqlMap{db: b.db, table: table}, nil
}

func (b *SQL) Cell(ctx context.Context, name string) (Cell, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if _, err := b.db.ExecContext(ctx, createCells); err != nil {
		return nil, fmt.Errorf("kv: create table kv_cells: %w", err)
	}
	return &sqlCell{db: b.db, name: name}, nil
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlMap struct {
	db    *sqlx.DB
	table string
}

type sqlRow struct {
	K uint64 `db:"k"`
	V []byte `db:"v"`
}

func (m *sqlMap) Get(ctx context.Context, key uint64) ([]byte, bool, error) {
	var v []byte
	err := m.db.GetContext(ctx, &v, "SELECT v FROM "+m.table+" WHERE k = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv: get %s/%d: %w", m.table, key, err)
	}
	return v, true, nil
}

func (m *sqlMap) Insert(ctx context.Context, key uint64, value []byte) ([]byte, bool, error) {
	var (
		prev    []byte
		existed bool
	)
	err := withTx(ctx, m.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &prev, "SELECT v FROM "+m.table+" WHERE k = ?", key)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err = tx.ExecContext(ctx, "INSERT INTO "+m.table+" (k, v) VALUES (?, ?)", key, value)
			return err
		case err != nil:
			return err
		}
		existed = true
		_, err = tx.ExecContext(ctx, "UPDATE "+m.table+" SET v = ? WHERE k = ?", value, key)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("kv: insert %s/%d: %w", m.table, key, err)
	}
	return prev, existed, nil
}

func (m *sqlMap) Remove(ctx context.Context, key uint64) ([]byte, bool, error) {
	var (
		prev    []byte
		existed bool
	)
	err := withTx(ctx, m.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &prev, "SELECT v FROM "+m.table+" WHERE k = ?", key)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		_, err = tx.ExecContext(ctx, "DELETE FROM "+m.table+" WHERE k = ?", key)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("kv: remove %s/%d: %w", m.table, key, err)
	}
	return prev, existed, nil
}

func (m *sqlMap) Scan(ctx context.Context) ([]Entry, error) {
	var rows []sqlRow
	if err := m.db.SelectContext(ctx, &rows, "SELECT k, v FROM "+m.table+" ORDER BY k"); err != nil {
		return nil, fmt.Errorf("kv: scan %s: %w", m.table, err)
	}
	out := make([]Entry, len(rows))
	for i, r := range rows {
		out[i] = Entry{Key: r.K, Value: r.V}
	}
	return out, nil
}

type sqlCell struct {
	db   *sqlx.DB
	name string
}

func (c *sqlCell) Get(ctx context.Context) (uint64, error) {
	var v uint64
	err := c.db.GetContext(ctx, &v, "SELECT v FROM kv_cells WHERE name = ?", c.name)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("kv: get cell %s: %w", c.name, err)
	}
	return v, nil
}

func (c *sqlCell) Set(ctx context.Context, v uint64) error {
	err := withTx(ctx, c.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE kv_cells SET v = ? WHERE name = ?", v, c.name)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			return nil
		}
		var exists int
		err = tx.GetContext(ctx, &exists, "SELECT COUNT(*) FROM kv_cells WHERE name = ?", c.name)
		if err != nil {
			return err
		}
		if exists > 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, "INSERT INTO kv_cells (name, v) VALUES (?, ?)", c.name, v)
		return err
	})
	if err != nil {
		return fmt.Errorf("kv: set cell %s: %w", c.name, err)
	}
	return nil
}

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/PrimaveraSA/PrimaveraDistribuidores/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS confirmed_matches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  productA TEXT NOT NULL,
  productB TEXT NOT NULL,
  priceA REAL NOT NULL,
  priceB REAL NOT NULL,
  similarity REAL NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_confirmed_productB ON confirmed_matches(productB);

CREATE TABLE IF NOT EXISTS pending_matches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  productA TEXT NOT NULL,
  productB TEXT NOT NULL,
  priceA REAL NOT NULL,
  priceB REAL NOT NULL,
  similarity REAL NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_pending_products ON pending_matches(productA, productB);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func (d *DB) ListConfirmed() ([]internal.ConfirmedMatch, error) {
	rows, err := d.conn.Query(`
SELECT id, productA, productB, priceA, priceB, similarity
FROM confirmed_matches ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ConfirmedMatch
	for rows.Next() {
		var m internal.ConfirmedMatch
		if err := rows.Scan(&m.ID, &m.ProductA, &m.ProductB, &m.PriceA, &m.PriceB, &m.Similarity); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) GetConfirmedByID(id int64) (*internal.ConfirmedMatch, error) {
	var m internal.ConfirmedMatch
	err := d.conn.QueryRow(`
SELECT id, productA, productB, priceA, priceB, similarity
FROM confirmed_matches WHERE id = ?`, id).Scan(
		&m.ID, &m.ProductA, &m.ProductB, &m.PriceA, &m.PriceB, &m.Similarity,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *DB) InsertConfirmed(m internal.ConfirmedMatch) (internal.ConfirmedMatch, error) {
	result, err := d.conn.Exec(`
INSERT INTO confirmed_matches (productA, productB, priceA, priceB, similarity)
VALUES (?, ?, ?, ?, ?)`, m.ProductA, m.ProductB, m.PriceA, m.PriceB, m.Similarity)
	if err != nil {
		return internal.ConfirmedMatch{}, err
	}
	m.ID, err = result.LastInsertId()
	return m, err
}

func (d *DB) DeleteConfirmed(id int64) error {
	_, err := d.conn.Exec(`DELETE FROM confirmed_matches WHERE id = ?`, id)
	return err
}

func (d *DB) ListPendingByStatus(status string) ([]internal.PendingMatch, error) {
	rows, err := d.conn.Query(`
SELECT id, productA, productB, priceA, priceB, similarity, status
FROM pending_matches WHERE status = ? ORDER BY id ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.PendingMatch
	for rows.Next() {
		var m internal.PendingMatch
		if err := rows.Scan(&m.ID, &m.ProductA, &m.ProductB, &m.PriceA, &m.PriceB, &m.Similarity, &m.Status); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (d *DB) FindPending(productA, productB, status string) (*internal.PendingMatch, error) {
	var m internal.PendingMatch
	err := d.conn.QueryRow(`
SELECT id, productA, productB, priceA, priceB, similarity, status
FROM pending_matches WHERE productA = ? AND productB = ? AND status = ? LIMIT 1`,
		productA, productB, status).Scan(
		&m.ID, &m.ProductA, &m.ProductB, &m.PriceA, &m.PriceB, &m.Similarity, &m.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *DB) GetPendingByID(id int64) (*internal.PendingMatch, error) {
	var m internal.PendingMatch
	err := d.conn.QueryRow(`
SELECT id, productA, productB, priceA, priceB, similarity, status
FROM pending_matches WHERE id = ?`, id).Scan(
		&m.ID, &m.ProductA, &m.ProductB, &m.PriceA, &m.PriceB, &m.Similarity, &m.Status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *DB) InsertPending(m internal.PendingMatch) (internal.PendingMatch, error) {
	result, err := d.conn.Exec(`
INSERT INTO pending_matches (productA, productB, priceA, priceB, similarity, status)
VALUES (?, ?, ?, ?, ?, ?)`, m.ProductA, m.ProductB, m.PriceA, m.PriceB, m.Similarity, m.Status)
	if err != nil {
		return internal.PendingMatch{}, err
	}
	m.ID, err = result.LastInsertId()
	return m, err
}

func (d *DB) DeletePending(id int64) error {
	_, err := d.conn.Exec(`DELETE FROM pending_matches WHERE id = ?`, id)
	return err
}

func (d *DB) DeleteAllPending() error {
	_, err := d.conn.Exec(`DELETE FROM pending_matches`)
	return err
}

func (d *DB) InsertRun(traceID string, counts internal.RunCounts) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, countsJson) VALUES (?, ?)`, traceID, string(countsJSON))
	return err
}

func (d *DB) ListRuns(limit int) ([]internal.RunRow, error) {
	rows, err := d.conn.Query(`
SELECT id, traceId, countsJson, createdAt FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRow
	for rows.Next() {
		var r internal.RunRow
		if err := rows.Scan(&r.ID, &r.TraceID, &r.CountsRaw, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

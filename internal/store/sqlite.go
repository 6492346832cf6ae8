package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/yorozuya-cybersecurity/yorosec-correlator/internal/schema"
)

// DB persists scan results into an embedded SQLite database so past
// correlation runs can be listed and reported on later.
type DB struct {
	conn *sql.DB
}

// OpenDB opens (and creates if missing) the scan database at path.
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open scan db: %w", err)
	}

	ddl := `
	CREATE TABLE IF NOT EXISTS scans (
		id         TEXT PRIMARY KEY,
		target     TEXT,
		started_at DATETIME,
		records    INTEGER
	);
	CREATE TABLE IF NOT EXISTS findings (
		id         TEXT,
		scan_id    TEXT NOT NULL,
		rule_id    TEXT,
		risk       TEXT,
		headline   TEXT,
		group_key  TEXT,
		member_ids TEXT,
		PRIMARY KEY (id, scan_id),
		FOREIGN KEY (scan_id) REFERENCES scans(id)
	);
	CREATE TABLE IF NOT EXISTS rule_errors (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id TEXT NOT NULL,
		rule_id TEXT,
		message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_findings_scan ON findings(scan_id);
	`
	if _, err := conn.Exec(ddl); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create scan db schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// SaveScan stores one scan result with its findings and rule errors.
func (db *DB) SaveScan(res schema.ScanResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO scans (id, target, started_at, records) VALUES (?, ?, ?, ?)`,
		res.ScanID, res.Target, res.Timestamp.UTC(), res.Records,
	); err != nil {
		return fmt.Errorf("save scan %s: %w", res.ScanID, err)
	}

	for _, f := range res.Findings {
		if _, err := tx.Exec(
			`INSERT INTO findings (id, scan_id, rule_id, risk, headline, group_key, member_ids)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.ID, res.ScanID, f.RuleID, f.Risk, f.Headline, f.GroupKey, strings.Join(f.MemberIDs, ","),
		); err != nil {
			return fmt.Errorf("save finding %s: %w", f.ID, err)
		}
	}

	for _, re := range res.RuleErrors {
		if _, err := tx.Exec(
			`INSERT INTO rule_errors (scan_id, rule_id, message) VALUES (?, ?, ?)`,
			res.ScanID, re.RuleID, re.Error,
		); err != nil {
			return fmt.Errorf("save rule error for %s: %w", re.RuleID, err)
		}
	}

	return tx.Commit()
}

// ScanRow is a summary line for one stored scan.
type ScanRow struct {
	ID        string
	Target    string
	StartedAt time.Time
	Records   int
	Findings  int
}

// ListScans returns stored scans, newest first.
func (db *DB) ListScans() ([]ScanRow, error) {
	rows, err := db.conn.Query(`
		SELECT s.id, s.target, s.started_at, s.records, COUNT(f.id)
		FROM scans s LEFT JOIN findings f ON f.scan_id = s.id
		GROUP BY s.id ORDER BY s.started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ScanRow
	for rows.Next() {
		var r ScanRow
		if err := rows.Scan(&r.ID, &r.Target, &r.StartedAt, &r.Records, &r.Findings); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Findings returns the stored findings for one scan in insertion order.
func (db *DB) Findings(scanID string) ([]schema.Finding, error) {
	rows, err := db.conn.Query(`
		SELECT id, rule_id, risk, headline, group_key, member_ids
		FROM findings WHERE scan_id = ? ORDER BY rowid`, scanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []schema.Finding
	for rows.Next() {
		var f schema.Finding
		var members string
		if err := rows.Scan(&f.ID, &f.RuleID, &f.Risk, &f.Headline, &f.GroupKey, &members); err != nil {
			return nil, err
		}
		if members != "" {
			f.MemberIDs = strings.Split(members, ",")
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

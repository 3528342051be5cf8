package indexdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"creativecatalog.ai/internal/creative"
)

const schemaVersion = "1"

// SQLiteIndex is a queryable copy of conversion runs and the records they
// produced. The JSON output file stays the source of truth.
type SQLiteIndex struct {
	db *sql.DB
}

// Run describes one conversion. ID and RecordedAt are assigned by RecordRun.
type Run struct {
	ID            int64
	RecordedAt    string
	CapturePath   string
	CaptureDigest string
	BlocksDigest  string
	ItemsDigest   string
	Entries       int
	Records       int
	Diagnostics   int
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteIndex{db: db}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at TEXT NOT NULL,
			capture_path TEXT NOT NULL,
			capture_digest TEXT NOT NULL,
			blocks_digest TEXT NOT NULL,
			items_digest TEXT NOT NULL,
			entries INTEGER NOT NULL,
			records INTEGER NOT NULL,
			diagnostics INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS records (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			metadata INTEGER,
			nbt BLOB,
			block_state_name TEXT,
			block_state_metadata INTEGER,
			PRIMARY KEY (run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_name ON records(name, run_id);`,
		`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','` + schemaVersion + `');`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores a run and all of its records in one transaction and
// returns the run id.
func (s *SQLiteIndex) RecordRun(ctx context.Context, run Run, records []creative.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs(recorded_at,capture_path,capture_digest,blocks_digest,items_digest,entries,records,diagnostics) VALUES(?,?,?,?,?,?,?,?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		run.CapturePath,
		run.CaptureDigest,
		run.BlocksDigest,
		run.ItemsDigest,
		run.Entries,
		len(records),
		run.Diagnostics,
	)
	if err != nil {
		return 0, err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records(run_id,seq,name,metadata,nbt,block_state_name,block_state_metadata) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i, r := range records {
		var (
			meta      sql.NullInt64
			bname     sql.NullString
			bmeta     sql.NullInt64
			nbtColumn any
		)
		if r.Metadata != nil {
			meta = sql.NullInt64{Int64: int64(*r.Metadata), Valid: true}
		}
		if r.BlockStateName != nil {
			bname = sql.NullString{String: *r.BlockStateName, Valid: true}
		}
		if r.BlockStateMetadata != nil {
			bmeta = sql.NullInt64{Int64: int64(*r.BlockStateMetadata), Valid: true}
		}
		if r.NBT != nil {
			nbtColumn = r.NBT
		}
		if _, err := stmt.ExecContext(ctx, runID, i, r.Name, meta, nbtColumn, bname, bmeta); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// Runs lists recorded runs, newest first.
func (s *SQLiteIndex) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,recorded_at,capture_path,capture_digest,blocks_digest,items_digest,entries,records,diagnostics FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.RecordedAt, &r.CapturePath, &r.CaptureDigest, &r.BlocksDigest, &r.ItemsDigest, &r.Entries, &r.Records, &r.Diagnostics); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordsForRun returns a run's records in output order.
func (s *SQLiteIndex) RecordsForRun(ctx context.Context, runID int64) ([]creative.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name,metadata,nbt,block_state_name,block_state_metadata FROM records WHERE run_id=? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []creative.Record
	for rows.Next() {
		var (
			r     creative.Record
			meta  sql.NullInt64
			nbt   []byte
			bname sql.NullString
			bmeta sql.NullInt64
		)
		if err := rows.Scan(&r.Name, &meta, &nbt, &bname, &bmeta); err != nil {
			return nil, err
		}
		if meta.Valid {
			v := uint32(meta.Int64)
			r.Metadata = &v
		}
		if len(nbt) > 0 {
			r.NBT = nbt
		}
		if bname.Valid {
			v := bname.String
			r.BlockStateName = &v
		}
		if bmeta.Valid {
			v := int(bmeta.Int64)
			r.BlockStateMetadata = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS company_records (
	doc_id         TEXT PRIMARY KEY,
	sec_code       TEXT NOT NULL,
	filer_name     TEXT NOT NULL,
	period_end     TEXT NOT NULL,
	retrieved_date TEXT NOT NULL,
	record         TEXT NOT NULL,
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS fetch_runs (
	id          TEXT PRIMARY KEY,
	date        TEXT NOT NULL,
	documents   INTEGER NOT NULL,
	extracted   INTEGER NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_company_records_sec_code ON company_records(sec_code);
CREATE INDEX IF NOT EXISTS idx_company_records_retrieved_date ON company_records(retrieved_date);
CREATE INDEX IF NOT EXISTS idx_fetch_runs_date ON fetch_runs(date);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRecords(ctx context.Context, records []model.CompanyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO company_records (doc_id, sec_code, filer_name, period_end, retrieved_date, record, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(doc_id) DO UPDATE SET
			sec_code = excluded.sec_code,
			filer_name = excluded.filer_name,
			period_end = excluded.period_end,
			retrieved_date = excluded.retrieved_date,
			record = excluded.record,
			updated_at = excluded.updated_at`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	saved := 0
	for _, rec := range records {
		recordJSON, err := json.Marshal(rec)
		if err != nil {
			return saved, eris.Wrapf(err, "sqlite: marshal record %s", rec.DocID)
		}
		if _, err := stmt.ExecContext(ctx,
			rec.DocID, rec.SecCode, rec.FilerName, rec.PeriodEnd, rec.RetrievedDate, string(recordJSON), now,
		); err != nil {
			return saved, eris.Wrapf(err, "sqlite: upsert record %s", rec.DocID)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return saved, eris.Wrap(err, "sqlite: commit")
	}
	return saved, nil
}

func (s *SQLiteStore) GetRecord(ctx context.Context, docID string) (*model.CompanyRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT record FROM company_records WHERE doc_id = ?`, docID,
	)
	var recordJSON string
	err := row.Scan(&recordJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get record %s", docID)
	}
	var rec model.CompanyRecord
	if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal record %s", docID)
	}
	return &rec, nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.CompanyRecord, error) {
	query := `SELECT record FROM company_records WHERE 1=1`
	var args []any

	if filter.SecCode != "" {
		query += ` AND sec_code = ?`
		args = append(args, filter.SecCode)
	}
	if filter.RetrievedDate != "" {
		query += ` AND retrieved_date = ?`
		args = append(args, filter.RetrievedDate)
	}
	query += ` ORDER BY sec_code`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close()

	var records []model.CompanyRecord
	for rows.Next() {
		var recordJSON string
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		var rec model.CompanyRecord
		if err := json.Unmarshal([]byte(recordJSON), &rec); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal record")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run FetchRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fetch_runs (id, date, documents, extracted, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Date, run.Documents, run.Extracted, run.StartedAt, run.FinishedAt,
	)
	return eris.Wrapf(err, "sqlite: insert fetch run %s", run.ID)
}

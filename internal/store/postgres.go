package store

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/oshima-research/edinet-cli/internal/db"
	"github.com/oshima-research/edinet-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_record":       `SELECT record FROM company_records WHERE doc_id = $1`,
	"insert_fetch_run": `INSERT INTO fetch_runs (id, date, documents, extracted, started_at, finished_at) VALUES ($1, $2, $3, $4, $5, $6)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS company_records (
	doc_id         TEXT PRIMARY KEY,
	sec_code       TEXT NOT NULL,
	filer_name     TEXT NOT NULL,
	period_end     TEXT NOT NULL,
	retrieved_date TEXT NOT NULL,
	record         JSONB NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS fetch_runs (
	id          TEXT PRIMARY KEY,
	date        TEXT NOT NULL,
	documents   INTEGER NOT NULL,
	extracted   INTEGER NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_company_records_sec_code ON company_records(sec_code);
CREATE INDEX IF NOT EXISTS idx_company_records_retrieved_date ON company_records(retrieved_date);
CREATE INDEX IF NOT EXISTS idx_fetch_runs_date ON fetch_runs(date);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

var recordColumns = []string{"doc_id", "sec_code", "filer_name", "period_end", "retrieved_date", "record", "updated_at"}

func (s *PostgresStore) SaveRecords(ctx context.Context, records []model.CompanyRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		recordJSON, err := json.Marshal(rec)
		if err != nil {
			return 0, eris.Wrapf(err, "postgres: marshal record %s", rec.DocID)
		}
		rows = append(rows, []any{
			rec.DocID, rec.SecCode, rec.FilerName, rec.PeriodEnd, rec.RetrievedDate, string(recordJSON), now,
		})
	}

	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "company_records",
		Columns:      recordColumns,
		ConflictKeys: []string{"doc_id"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: save records")
	}
	return int(n), nil
}

func (s *PostgresStore) GetRecord(ctx context.Context, docID string) (*model.CompanyRecord, error) {
	var recordJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT record FROM company_records WHERE doc_id = $1`, docID,
	).Scan(&recordJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get record %s", docID)
	}
	var rec model.CompanyRecord
	if err := json.Unmarshal(recordJSON, &rec); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal record %s", docID)
	}
	return &rec, nil
}

func (s *PostgresStore) ListRecords(ctx context.Context, filter RecordFilter) ([]model.CompanyRecord, error) {
	query := `SELECT record FROM company_records WHERE 1=1`
	var args []any

	if filter.SecCode != "" {
		args = append(args, filter.SecCode)
		query += ` AND sec_code = $1`
	}
	if filter.RetrievedDate != "" {
		args = append(args, filter.RetrievedDate)
		query += ` AND retrieved_date = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY sec_code`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list records")
	}
	defer rows.Close()

	var records []model.CompanyRecord
	for rows.Next() {
		var recordJSON []byte
		if err := rows.Scan(&recordJSON); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		var rec model.CompanyRecord
		if err := json.Unmarshal(recordJSON, &rec); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal record")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list records iterate")
}

func (s *PostgresStore) RecordRun(ctx context.Context, run FetchRun) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO fetch_runs (id, date, documents, extracted, started_at, finished_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, run.Date, run.Documents, run.Extracted, run.StartedAt, run.FinishedAt,
	)
	return eris.Wrapf(err, "postgres: insert fetch run %s", run.ID)
}

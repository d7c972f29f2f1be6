package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_GetRecord_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT record FROM company_records WHERE doc_id = \$1`).
		WithArgs("S100ZZZZ").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetRecord(context.Background(), "S100ZZZZ")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRecord(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	recordJSON := []byte(`{"secCode":"1234","filerName":"テスト株式会社","docID":"S100AAAA","docPdfURL":"","yahooURL":"","periodEnd":"2024年3月期","characteristic":null,"metrics":{"netSales":{"value":5000000000,"source_tag":"NetSales","source_context":"CurrentYearDuration","method":"pattern"}},"retrievedDate":"2024-06-25"}`)
	mock.ExpectQuery(`SELECT record FROM company_records WHERE doc_id = \$1`).
		WithArgs("S100AAAA").
		WillReturnRows(pgxmock.NewRows([]string{"record"}).AddRow(recordJSON))

	got, err := s.GetRecord(context.Background(), "S100AAAA")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1234", got.SecCode)
	require.NotNil(t, got.Metrics)
	assert.Equal(t, 5_000_000_000.0, *got.Metrics.Value("netSales"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecords_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_company_records"}, recordColumns).
		WillReturnResult(1)
	mock.ExpectExec(`ON CONFLICT`).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	metrics := model.NewMetricsRecord([]string{"netSales"})
	n, err := s.SaveRecords(context.Background(), []model.CompanyRecord{{
		SecCode:       "1234",
		FilerName:     "テスト株式会社",
		DocID:         "S100AAAA",
		PeriodEnd:     "2024年3月期",
		Metrics:       metrics,
		RetrievedDate: "2024-06-25",
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRecords_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT record FROM company_records`).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"record"}))

	got, err := s.ListRecords(context.Background(), RecordFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO fetch_runs`).
		WithArgs("run-1", "2024-06-25", 10, 9, now.Add(-time.Minute), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.RecordRun(context.Background(), FetchRun{
		ID:         "run-1",
		Date:       "2024-06-25",
		Documents:  10,
		Extracted:  9,
		StartedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

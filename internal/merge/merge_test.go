package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshima-research/edinet-cli/internal/model"
)

func record(secCode, docID, retrievedDate string) model.CompanyRecord {
	return model.CompanyRecord{
		SecCode:       secCode,
		FilerName:     "会社" + secCode,
		DocID:         docID,
		PeriodEnd:     "2024年3月期",
		Metrics:       model.NewMetricsRecord([]string{"netSales"}),
		RetrievedDate: retrievedDate,
	}
}

func TestMergeLatestWinsPerCompany(t *testing.T) {
	day1 := []model.CompanyRecord{
		record("1234", "S100AAAA", "2024-06-24"),
		record("5678", "S100BBBB", "2024-06-24"),
	}
	day2 := []model.CompanyRecord{
		record("1234", "S100CCCC", "2024-06-25"),
	}

	merged := Merge(day1, day2)
	require.Len(t, merged, 2)
	assert.Equal(t, "1234", merged[0].SecCode)
	assert.Equal(t, "S100CCCC", merged[0].DocID, "later day replaces earlier record")
	assert.Equal(t, "S100BBBB", merged[1].DocID)
}

func TestMergeSortsBySecCode(t *testing.T) {
	merged := Merge([]model.CompanyRecord{
		record("9999", "S100AAAA", "2024-06-24"),
		record("0001", "S100BBBB", "2024-06-24"),
		record("5000", "S100CCCC", "2024-06-24"),
	})
	require.Len(t, merged, 3)
	assert.Equal(t, "0001", merged[0].SecCode)
	assert.Equal(t, "5000", merged[1].SecCode)
	assert.Equal(t, "9999", merged[2].SecCode)
}

func TestMergeFilesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	day1 := filepath.Join(dir, "2024-06-24.json")
	day2 := filepath.Join(dir, "2024-06-25.json")

	require.NoError(t, WriteRecords(day1, []model.CompanyRecord{record("1234", "S100AAAA", "2024-06-24")}))
	require.NoError(t, WriteRecords(day2, []model.CompanyRecord{record("1234", "S100CCCC", "2024-06-25")}))

	merged, err := MergeFiles([]string{day1, day2})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "S100CCCC", merged[0].DocID)
}

func TestReadDayFileErrors(t *testing.T) {
	_, err := ReadDayFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	_, err = ReadDayFile(bad)
	assert.Error(t, err)
}

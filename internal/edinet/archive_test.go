package edinet

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestFindMainInstancePrefersAnnualReport(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"XBRL/AuditDoc/jpaud-aar-cn-001_E00000-000_2024-03-31_01_2024-06-25.xbrl":     "audit",
		"XBRL/PublicDoc/jpcrp030000-asr-001_E00000-000_2024-03-31_01_2024-06-25.xbrl": "main",
		"XBRL/PublicDoc/manifest.xml":                                                 "manifest",
	})

	data, name, err := FindMainInstance(archive)
	require.NoError(t, err)
	assert.Equal(t, "main", string(data))
	assert.Contains(t, name, "jpcrp030000-asr")
}

func TestFindMainInstanceFallsBackToPublicDoc(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"XBRL/AuditDoc/jpaud-aar-cn-001.xbrl": "audit",
		"XBRL/PublicDoc/jpsps070000-asr.xbrl": "public",
	})

	data, _, err := FindMainInstance(archive)
	require.NoError(t, err)
	assert.Equal(t, "public", string(data))
}

func TestFindMainInstanceFallsBackToAnyInstance(t *testing.T) {
	archive := buildZip(t, map[string]string{
		"XBRL/AuditDoc/jpaud-aar-cn-001.xbrl": "audit",
	})

	data, _, err := FindMainInstance(archive)
	require.NoError(t, err)
	assert.Equal(t, "audit", string(data))
}

func TestFindMainInstanceErrors(t *testing.T) {
	archive := buildZip(t, map[string]string{"readme.txt": "no instances here"})
	_, _, err := FindMainInstance(archive)
	assert.Error(t, err)

	_, _, err = FindMainInstance([]byte("not a zip"))
	assert.Error(t, err)
}

package edinet

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// FindMainInstance locates the primary XBRL instance inside a downloaded
// filing archive and returns its contents. EDINET archives carry the annual
// report instance under PublicDoc with a jpcrp030000-asr prefix; audit
// reports and cover pages are separate instances that must not be picked up.
// The search relaxes in two steps when the preferred name is absent.
func FindMainInstance(archive []byte) ([]byte, string, error) {
	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, "", eris.Wrap(err, "archive: open zip")
	}

	match := func(pred func(string) bool) *zip.File {
		for _, f := range r.File {
			if f.FileInfo().IsDir() {
				continue
			}
			if pred(f.Name) {
				return f
			}
		}
		return nil
	}

	f := match(func(name string) bool {
		return strings.Contains(name, "PublicDoc") &&
			strings.Contains(name, "jpcrp030000-asr") &&
			strings.HasSuffix(name, ".xbrl")
	})
	if f == nil {
		f = match(func(name string) bool {
			return strings.Contains(name, "PublicDoc") && strings.HasSuffix(name, ".xbrl")
		})
	}
	if f == nil {
		f = match(func(name string) bool {
			return strings.HasSuffix(name, ".xbrl")
		})
	}
	if f == nil {
		return nil, "", eris.New("archive: no xbrl instance found")
	}

	rc, err := f.Open()
	if err != nil {
		return nil, "", eris.Wrapf(err, "archive: open %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", eris.Wrapf(err, "archive: read %s", f.Name)
	}
	return data, f.Name, nil
}

// Package merge combines per-day extraction output files into a single
// dataset, keeping the most recent record per company.
package merge

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// ReadDayFile loads one per-day output file.
func ReadDayFile(path string) ([]model.CompanyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "merge: read %s", path)
	}
	var records []model.CompanyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "merge: parse %s", path)
	}
	return records, nil
}

// Merge flattens batches into one record set keyed by securities code. Later
// batches win: callers pass day files in ascending date order so a company
// refiling on a later day replaces its earlier record. Output is sorted by
// securities code for deterministic serialization.
func Merge(batches ...[]model.CompanyRecord) []model.CompanyRecord {
	byCode := make(map[string]model.CompanyRecord)
	for _, batch := range batches {
		for _, rec := range batch {
			if prev, ok := byCode[rec.SecCode]; ok {
				zap.L().Debug("replacing earlier record",
					zap.String("sec_code", rec.SecCode),
					zap.String("old_doc_id", prev.DocID),
					zap.String("new_doc_id", rec.DocID),
				)
			}
			byCode[rec.SecCode] = rec
		}
	}

	merged := make([]model.CompanyRecord, 0, len(byCode))
	for _, rec := range byCode {
		merged = append(merged, rec)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].SecCode < merged[j].SecCode
	})
	return merged
}

// MergeFiles reads the given day files in order and merges them.
func MergeFiles(paths []string) ([]model.CompanyRecord, error) {
	batches := make([][]model.CompanyRecord, 0, len(paths))
	for _, path := range paths {
		records, err := ReadDayFile(path)
		if err != nil {
			return nil, err
		}
		batches = append(batches, records)
	}
	return Merge(batches...), nil
}

// WriteRecords writes a record set as indented JSON.
func WriteRecords(path string, records []model.CompanyRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "merge: marshal records")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "merge: write %s", path)
	}
	return nil
}

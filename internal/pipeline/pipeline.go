// Package pipeline orchestrates the daily extraction flow: list filings,
// download archives, parse the XBRL instance and resolve metrics into
// company records.
package pipeline

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oshima-research/edinet-cli/internal/edinet"
	"github.com/oshima-research/edinet-cli/internal/model"
	"github.com/oshima-research/edinet-cli/internal/resolve"
	"github.com/oshima-research/edinet-cli/internal/xbrl"
)

// DocumentSource lists filings and downloads their archives. *edinet.Client
// implements it; tests substitute a stub.
type DocumentSource interface {
	ListAnnualReports(ctx context.Context, date string) ([]edinet.Document, error)
	DownloadArchive(ctx context.Context, docID string) ([]byte, error)
}

// Pipeline extracts company records for one filing date.
type Pipeline struct {
	source      DocumentSource
	resolver    *resolve.Resolver
	concurrency int
}

// New creates a pipeline. Concurrency bounds parallel document processing;
// values below one run sequentially.
func New(source DocumentSource, resolver *resolve.Resolver, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{source: source, resolver: resolver, concurrency: concurrency}
}

// ProcessDate extracts records for every annual report filed on the given
// date. A document that fails to download or parse is logged and skipped;
// one bad filing never aborts the day. Records keep the index order of the
// document list.
func (p *Pipeline) ProcessDate(ctx context.Context, date string) ([]model.CompanyRecord, int, error) {
	docs, err := p.source.ListAnnualReports(ctx, date)
	if err != nil {
		return nil, 0, err
	}
	if len(docs) == 0 {
		return nil, 0, nil
	}

	results := make([]*model.CompanyRecord, len(docs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, doc := range docs {
		g.Go(func() error {
			rec, err := p.ProcessDocument(gctx, doc, date)
			if err != nil {
				zap.L().Warn("skipping document",
					zap.String("doc_id", doc.DocID),
					zap.String("filer", doc.FilerName),
					zap.Error(err),
				)
				return nil
			}
			mu.Lock()
			results[i] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, len(docs), err
	}

	records := make([]model.CompanyRecord, 0, len(docs))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, len(docs), nil
}

// ProcessDocument downloads one filing's archive and extracts its record.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc edinet.Document, retrievedDate string) (*model.CompanyRecord, error) {
	archive, err := p.source.DownloadArchive(ctx, doc.DocID)
	if err != nil {
		return nil, err
	}
	instance, name, err := edinet.FindMainInstance(archive)
	if err != nil {
		return nil, err
	}
	zap.L().Debug("parsing instance",
		zap.String("doc_id", doc.DocID),
		zap.String("instance", name),
	)
	return p.ExtractRecord(instance, doc, retrievedDate)
}

// ExtractRecord resolves one parsed instance into a company record. It is
// the single entry point shared by the daily fetch and local extraction.
func (p *Pipeline) ExtractRecord(instance []byte, doc edinet.Document, retrievedDate string) (*model.CompanyRecord, error) {
	facts, contexts, err := xbrl.ParseInstance(bytes.NewReader(instance))
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: parse instance %s", doc.DocID)
	}

	meta := model.FilingMeta{
		DocID:         doc.DocID,
		SecCode:       doc.SecCode,
		FilerName:     doc.FilerName,
		FiscalYearEnd: parseFiscalYearEnd(doc.PeriodEnd),
	}
	metrics := p.resolver.Resolve(facts, contexts, meta)

	secCode := model.NormalizeSecCode(doc.SecCode)
	return &model.CompanyRecord{
		SecCode:        secCode,
		FilerName:      doc.FilerName,
		DocID:          doc.DocID,
		DocPdfURL:      edinet.PdfURL(doc.DocID),
		YahooURL:       edinet.YahooFinanceURL(secCode),
		PeriodEnd:      model.FormatPeriodEnd(doc.PeriodEnd),
		Characteristic: resolve.ExtractCharacteristic(facts),
		Metrics:        metrics,
		RetrievedDate:  retrievedDate,
	}, nil
}

func parseFiscalYearEnd(periodEnd string) time.Time {
	t, err := time.Parse("2006-01-02", periodEnd)
	if err != nil {
		return time.Time{}
	}
	return t
}

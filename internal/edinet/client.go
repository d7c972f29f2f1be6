// Package edinet implements the EDINET document API v2 client and the
// handling of downloaded filing archives.
package edinet

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the EDINET API v2 endpoint.
	DefaultBaseURL = "https://api.edinet-fsa.go.jp/api/v2"

	// docTypeAnnualReport is the docTypeCode of 有価証券報告書 (annual
	// securities reports), the only document type extracted.
	docTypeAnnualReport = "120"

	listTypeMetadata = "2"
	downloadTypeXBRL = "1"
)

// ClientOptions configures the EDINET client.
type ClientOptions struct {
	BaseURL         string
	SubscriptionKey string
	UserAgent       string
	Timeout         time.Duration
	MaxRetries      int
	// RequestsPerSec throttles all API calls; EDINET tolerates about one
	// request per second.
	RequestsPerSec float64
	// RetryBackoff is the base delay of the exponential retry backoff.
	RetryBackoff time.Duration
}

// Client calls the EDINET document API with rate limiting and retries.
type Client struct {
	client  *http.Client
	opts    ClientOptions
	limiter *rate.Limiter
}

// Document is one entry of the daily document index.
type Document struct {
	DocID          string `json:"docID"`
	SecCode        string `json:"secCode"`
	FilerName      string `json:"filerName"`
	DocTypeCode    string `json:"docTypeCode"`
	PeriodEnd      string `json:"periodEnd"`
	PeriodStart    string `json:"periodStart"`
	DocDescription string `json:"docDescription"`
	SubmitDateTime string `json:"submitDateTime"`
}

type documentList struct {
	Results []Document `json:"results"`
}

// NewClient creates an EDINET client with the given options.
func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "edinet-cli/1.0"
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 1
	}
	if opts.RetryBackoff == 0 {
		opts.RetryBackoff = time.Second
	}
	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
	}
}

// ListAnnualReports returns the annual securities reports filed on the given
// date by listed companies. Documents without a securities code (funds,
// unlisted filers) are excluded.
func (c *Client) ListAnnualReports(ctx context.Context, date string) ([]Document, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("type", listTypeMetadata)
	if c.opts.SubscriptionKey != "" {
		q.Set("Subscription-Key", c.opts.SubscriptionKey)
	}

	body, err := c.get(ctx, c.opts.BaseURL+"/documents.json?"+q.Encode())
	if err != nil {
		return nil, eris.Wrapf(err, "edinet: list documents for %s", date)
	}
	defer body.Close() //nolint:errcheck

	var list documentList
	if err := json.NewDecoder(body).Decode(&list); err != nil {
		return nil, eris.Wrapf(err, "edinet: decode document list for %s", date)
	}

	var reports []Document
	for _, d := range list.Results {
		if d.DocTypeCode != docTypeAnnualReport || d.SecCode == "" {
			continue
		}
		reports = append(reports, d)
	}
	zap.L().Info("listed annual reports",
		zap.String("date", date),
		zap.Int("total", len(list.Results)),
		zap.Int("annual_reports", len(reports)),
	)
	return reports, nil
}

// DownloadArchive fetches the XBRL ZIP archive of one document and returns
// its raw bytes.
func (c *Client) DownloadArchive(ctx context.Context, docID string) ([]byte, error) {
	q := url.Values{}
	q.Set("type", downloadTypeXBRL)
	if c.opts.SubscriptionKey != "" {
		q.Set("Subscription-Key", c.opts.SubscriptionKey)
	}

	body, err := c.get(ctx, c.opts.BaseURL+"/documents/"+docID+"?"+q.Encode())
	if err != nil {
		return nil, eris.Wrapf(err, "edinet: download archive %s", docID)
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrapf(err, "edinet: read archive %s", docID)
	}
	return data, nil
}

// PdfURL returns the public viewer URL of a document's PDF rendition.
func PdfURL(docID string) string {
	return "https://disclosure2.edinet-fsa.go.jp/WZEK0040.aspx?" + docID
}

// YahooFinanceURL returns the Yahoo! Finance Japan quote page for a
// normalized securities code.
func YahooFinanceURL(secCode string) string {
	return "https://finance.yahoo.co.jp/quote/" + secCode + ".T"
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "edinet: create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	var lastErr error
	for attempt := range c.opts.MaxRetries {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "edinet: rate limiter wait")
		}

		resp, err := c.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			zap.L().Warn("edinet request failed, retrying",
				zap.String("url", req.URL.Path),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("edinet: http %d from %s", resp.StatusCode, req.URL.Path)
			zap.L().Warn("edinet server rejected request, retrying",
				zap.String("url", req.URL.Path),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("edinet: unexpected status %d from %s", resp.StatusCode, req.URL.Path)
		}

		return resp.Body, nil
	}
	return nil, eris.Wrap(lastErr, "edinet: all retries exhausted")
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	base := c.opts.RetryBackoff
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

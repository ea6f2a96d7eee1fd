// Package metadata enriches decoded token events with fields fetched from
// the token's off-chain metadata URI.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"pumpfun-monitor/internal/domain"
	"pumpfun-monitor/internal/observability"
)

// DefaultFetchTimeout bounds a single metadata fetch.
const DefaultFetchTimeout = 10 * time.Second

// maxBodySize caps how much of a metadata response is read. The URI is
// attacker-influenced; a hostile host must not be able to stall the pipeline
// with an unbounded body.
const maxBodySize = 1 << 20

// Enricher fetches and normalizes token metadata. It never fails: every
// error path degrades to the all-NA result so enrichment cannot stall or
// abort the pipeline.
type Enricher struct {
	client  *http.Client
	logger  *log.Logger
	metrics *observability.Metrics
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithFetchTimeout sets the per-fetch timeout.
func WithFetchTimeout(d time.Duration) EnricherOption {
	return func(e *Enricher) {
		e.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) EnricherOption {
	return func(e *Enricher) {
		e.client = client
	}
}

// WithLogger sets the enricher's logger.
func WithLogger(logger *log.Logger) EnricherOption {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) EnricherOption {
	return func(e *Enricher) {
		e.metrics = m
	}
}

// NewEnricher creates an enricher with the default timeout.
func NewEnricher(opts ...EnricherOption) *Enricher {
	e := &Enricher{
		client: &http.Client{Timeout: DefaultFetchTimeout},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// metadataDoc is the subset of the off-chain JSON document we extract.
// Pointers distinguish absent keys from present empty values.
type metadataDoc struct {
	Image    *string `json:"image"`
	Twitter  *string `json:"twitter"`
	Telegram *string `json:"telegram"`
	Website  *string `json:"website"`
}

// Fetch retrieves the metadata document at uri and normalizes its fields.
// Network errors, non-2xx statuses and malformed JSON all yield the all-NA
// result; per-key absence yields NA for that key only.
func (e *Enricher) Fetch(ctx context.Context, uri string) domain.TokenMetadata {
	meta, err := e.fetch(ctx, uri)
	if err != nil {
		e.logger.Printf("[metadata] fetch %s: %v", uri, err)
		if e.metrics != nil {
			e.metrics.MetadataFetchFailures.Inc()
		}
		return domain.UnavailableMetadata()
	}
	return meta
}

func (e *Enricher) fetch(ctx context.Context, uri string) (domain.TokenMetadata, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return domain.TokenMetadata{}, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return domain.TokenMetadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.TokenMetadata{}, &statusError{code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return domain.TokenMetadata{}, err
	}

	var doc metadataDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.TokenMetadata{}, err
	}

	if e.metrics != nil {
		e.metrics.MetadataFetchDuration.Observe(time.Since(start).Seconds())
		e.metrics.MetadataFetches.Inc()
	}

	return domain.TokenMetadata{
		Image:    orNA(doc.Image),
		Twitter:  normalizeTwitter(doc.Twitter),
		Telegram: normalizeTelegram(doc.Telegram),
		Website:  normalizeWebsite(doc.Website),
	}, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func orNA(v *string) string {
	if v == nil {
		return domain.NotAvailable
	}
	return *v
}

func hasScheme(v string) bool {
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://")
}

// normalizeTwitter rewrites a bare handle to a canonical profile URL.
func normalizeTwitter(v *string) string {
	if v == nil {
		return domain.NotAvailable
	}
	if *v == domain.NotAvailable || hasScheme(*v) {
		return *v
	}
	return "https://twitter.com/" + strings.TrimLeft(*v, "@")
}

// normalizeTelegram rewrites a bare handle to a canonical t.me URL.
func normalizeTelegram(v *string) string {
	if v == nil {
		return domain.NotAvailable
	}
	if *v == domain.NotAvailable || hasScheme(*v) {
		return *v
	}
	return "https://t.me/" + strings.TrimLeft(*v, "@")
}

// normalizeWebsite prepends https:// to a bare domain.
func normalizeWebsite(v *string) string {
	if v == nil {
		return domain.NotAvailable
	}
	if *v == domain.NotAvailable || hasScheme(*v) {
		return *v
	}
	return "https://" + *v
}

package ingestion

import (
	"context"
	"log"

	"pumpfun-monitor/internal/discovery"
	"pumpfun-monitor/internal/domain"
	"pumpfun-monitor/internal/metadata"
	"pumpfun-monitor/internal/observability"
	"pumpfun-monitor/internal/solana"
	"pumpfun-monitor/internal/storage"
)

// URIResolver resolves a metadata URI from on-chain state when the event
// itself carries none.
type URIResolver interface {
	ResolveURI(ctx context.Context, mint string) (string, error)
}

// Pipeline processes one log notification at a time:
// filter -> decode -> enrich -> append. All per-record failures are logged
// and contained; Process never fails the session.
type Pipeline struct {
	parser   *discovery.CreateEventParser
	enricher *metadata.Enricher
	store    storage.RecordStore
	resolver URIResolver // optional
	logger   *log.Logger
	metrics  *observability.Metrics
}

// PipelineOptions contains configuration for creating a Pipeline.
type PipelineOptions struct {
	Parser   *discovery.CreateEventParser
	Enricher *metadata.Enricher
	Store    storage.RecordStore
	Resolver URIResolver
	Logger   *log.Logger
	Metrics  *observability.Metrics
}

// NewPipeline creates a pipeline from the provided components.
func NewPipeline(opts PipelineOptions) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		parser:   opts.Parser,
		enricher: opts.Enricher,
		store:    opts.Store,
		resolver: opts.Resolver,
		logger:   logger,
		metrics:  opts.Metrics,
	}
}

// Process runs one notification through the pipeline. Events are handled
// sequentially in log order; a failing record never affects the next one.
func (p *Pipeline) Process(ctx context.Context, notif solana.LogNotification) {
	if p.metrics != nil {
		p.metrics.NotificationsReceived.Inc()
	}

	events := p.parser.ParseCreateEvents(notif.Logs)
	for _, ev := range events {
		p.processEvent(ctx, ev)
	}
}

func (p *Pipeline) processEvent(ctx context.Context, ev *domain.TokenCreationEvent) {
	if p.metrics != nil {
		p.metrics.EventsDecoded.Inc()
	}

	uri := ev.URI
	if uri == "" && p.resolver != nil {
		resolved, err := p.resolver.ResolveURI(ctx, ev.Mint)
		if err != nil {
			p.logger.Printf("[pipeline] resolve uri for %s: %v", ev.Mint, err)
		} else {
			uri = resolved
		}
	}

	meta := domain.UnavailableMetadata()
	if uri != "" {
		p.logger.Printf("[pipeline] fetching metadata for %s (%s)", ev.Name, ev.Symbol)
		meta = p.enricher.Fetch(ctx, uri)
	}

	record := domain.NewPersistedRecord(ev, meta)
	if err := p.store.Append(ctx, record); err != nil {
		p.logger.Printf("[pipeline] dropping record for %s: %v", ev.Mint, err)
		if p.metrics != nil {
			p.metrics.SinkWriteErrors.Inc()
		}
		return
	}

	if p.metrics != nil {
		p.metrics.RecordsWritten.Inc()
	}
	p.logger.Printf("[pipeline] logged token: %s (%s)", ev.Name, ev.Symbol)
}

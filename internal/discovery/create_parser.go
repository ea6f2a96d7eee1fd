package discovery

import (
	"encoding/base64"
	"log"
	"strings"
	"time"

	"pumpfun-monitor/internal/domain"
	"pumpfun-monitor/internal/observability"
)

// PumpFun is the pump.fun program ID.
const PumpFun = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"

const (
	// instructionMarker identifies transactions that initialize a new mint.
	instructionMarker = "Instruction: InitializeMint2"
	// programDataPrefix marks log lines carrying base64 event data.
	programDataPrefix = "Program data: "
	// tradeEventPrefix is the base64 signature of the pump.fun trade event,
	// which shares the InitializeMint2 marker but is not a creation.
	tradeEventPrefix = "vdt/"
)

// mintTimeLayout is the timestamp format stored with each event.
const mintTimeLayout = "2006-01-02 15:04:05"

// CreateEventParser extracts token creation events from transaction logs.
type CreateEventParser struct {
	logger  *log.Logger
	now     func() time.Time
	metrics *observability.Metrics
}

// ParserOption configures CreateEventParser.
type ParserOption func(*CreateEventParser)

// WithParserMetrics sets the metrics sink.
func WithParserMetrics(m *observability.Metrics) ParserOption {
	return func(p *CreateEventParser) {
		p.metrics = m
	}
}

// NewCreateEventParser creates a parser. A nil logger falls back to the
// default logger.
func NewCreateEventParser(logger *log.Logger, opts ...ParserOption) *CreateEventParser {
	if logger == nil {
		logger = log.Default()
	}
	p := &CreateEventParser{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseCreateEvents scans one notification's log lines for token creation
// events. It returns zero or more events; normally 0 or 1. Lines that fail
// base64 or event decoding are logged and skipped without affecting the rest
// of the batch.
func (p *CreateEventParser) ParseCreateEvents(logs []string) []*domain.TokenCreationEvent {
	if !strings.Contains(strings.Join(logs, ""), instructionMarker) {
		return nil
	}

	var events []*domain.TokenCreationEvent
	for _, line := range logs {
		idx := strings.Index(line, programDataPrefix)
		if idx < 0 {
			continue
		}
		payload := line[idx+len(programDataPrefix):]
		if strings.HasPrefix(payload, tradeEventPrefix) {
			continue
		}

		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			p.logger.Printf("[parser] skipping undecodable program data: %v", err)
			if p.metrics != nil {
				p.metrics.DecodeErrors.Inc()
			}
			continue
		}

		ev, err := DecodeCreateEvent(raw)
		if err != nil {
			p.logger.Printf("[parser] skipping event: %v", err)
			if p.metrics != nil {
				p.metrics.DecodeErrors.Inc()
			}
			continue
		}

		ev.MintTime = p.now().UTC().Format(mintTimeLayout)
		events = append(events, ev)
	}

	return events
}

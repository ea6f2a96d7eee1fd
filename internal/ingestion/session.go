package ingestion

import (
	"context"
	"fmt"
	"log"

	"pumpfun-monitor/internal/observability"
	"pumpfun-monitor/internal/solana"
)

// Session owns one logical subscription: it sends the subscribe request,
// then dispatches notifications through the pipeline until the transport
// fails. It never retries; the terminating error is returned to the caller.
type Session struct {
	stream   solana.LogStream
	pipeline *Pipeline
	filter   solana.LogsFilter
	logger   *log.Logger
	metrics  *observability.Metrics

	// onReceiving fires once the subscription is confirmed and the session
	// enters its receive loop.
	onReceiving func()
}

// SessionOptions contains configuration for creating a Session.
type SessionOptions struct {
	Stream      solana.LogStream
	Pipeline    *Pipeline
	Program     string
	Commitment  string
	Logger      *log.Logger
	Metrics     *observability.Metrics
	OnReceiving func()
}

// NewSession creates a session over an established stream.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		stream:   opts.Stream,
		pipeline: opts.Pipeline,
		filter: solana.LogsFilter{
			Mentions:   []string{opts.Program},
			Commitment: opts.Commitment,
		},
		logger:      logger,
		metrics:     opts.Metrics,
		onReceiving: opts.OnReceiving,
	}
}

// Run subscribes and processes notifications until the transport fails or
// the context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	ch, err := s.stream.SubscribeLogs(ctx, s.filter)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	s.logger.Printf("[session] subscribed to token creation logs for %s", s.filter.Mentions[0])
	if s.metrics != nil {
		s.metrics.ConnectionUp.Set(1)
		defer s.metrics.ConnectionUp.Set(0)
	}
	if s.onReceiving != nil {
		s.onReceiving()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notif, ok := <-ch:
			if !ok {
				err := s.stream.Err()
				if err == nil {
					err = fmt.Errorf("stream closed")
				}
				return fmt.Errorf("transport: %w", err)
			}
			s.dispatch(ctx, notif)
		}
	}
}

// dispatch isolates one notification's processing: nothing that happens to
// a single message may end the session.
func (s *Session) dispatch(ctx context.Context, notif solana.LogNotification) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("[session] recovered processing %s: %v", notif.Signature, r)
		}
	}()

	s.pipeline.Process(ctx, notif)
}

package ingestion

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"pumpfun-monitor/internal/observability"
	"pumpfun-monitor/internal/solana"
)

// Default retry policy, matching the harvester this service replaces.
const (
	DefaultMaxRetries  = 20
	DefaultBackoffBase = 3.0
	DefaultMaxBackoff  = 30 * time.Second
)

// DialFunc opens a fresh transport stream.
type DialFunc func(ctx context.Context) (solana.LogStream, error)

// Supervisor owns the reconnect policy: it opens sessions and reopens them
// with exponential backoff after transport failure. When the retry counter
// exceeds the ceiling it gives up with ErrRetryExhausted, which the caller
// is expected to turn into a full process restart.
type Supervisor struct {
	dial       DialFunc
	pipeline   *Pipeline
	program    string
	commitment string

	maxRetries  int
	backoffBase float64
	maxBackoff  time.Duration

	logger  *log.Logger
	metrics *observability.Metrics
}

// SupervisorOptions contains configuration for creating a Supervisor.
type SupervisorOptions struct {
	Dial       DialFunc
	Pipeline   *Pipeline
	Program    string
	Commitment string

	MaxRetries  int           // Default: 20
	BackoffBase float64       // Default: 3
	MaxBackoff  time.Duration // Default: 30s

	Logger  *log.Logger
	Metrics *observability.Metrics
}

// NewSupervisor creates a supervisor.
func NewSupervisor(opts SupervisorOptions) *Supervisor {
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	backoffBase := opts.BackoffBase
	if backoffBase == 0 {
		backoffBase = DefaultBackoffBase
	}
	maxBackoff := opts.MaxBackoff
	if maxBackoff == 0 {
		maxBackoff = DefaultMaxBackoff
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Supervisor{
		dial:        opts.Dial,
		pipeline:    opts.Pipeline,
		program:     opts.Program,
		commitment:  opts.Commitment,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		maxBackoff:  maxBackoff,
		logger:      logger,
		metrics:     opts.Metrics,
	}
}

// Run opens and supervises sessions until the context is cancelled or the
// retry ceiling is exceeded.
func (s *Supervisor) Run(ctx context.Context) error {
	retryCount := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.runSession(ctx, func() { retryCount = 0 })
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		s.logger.Printf("[supervisor] session ended: %v", err)

		retryCount++
		if retryCount > s.maxRetries {
			s.logger.Printf("[supervisor] maximum retries (%d) reached, giving up", s.maxRetries)
			if s.metrics != nil {
				s.metrics.RetryExhaustions.Inc()
			}
			return ErrRetryExhausted
		}

		delay := backoffDelay(s.backoffBase, retryCount, s.maxBackoff)
		s.logger.Printf("[supervisor] retry %d/%d in %v", retryCount, s.maxRetries, delay)
		if s.metrics != nil {
			s.metrics.Reconnects.Inc()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// runSession dials a fresh stream and runs one session over it.
func (s *Supervisor) runSession(ctx context.Context, onReceiving func()) error {
	s.logger.Println("[supervisor] connecting to WebSocket...")

	stream, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	session := NewSession(SessionOptions{
		Stream:      stream,
		Pipeline:    s.pipeline,
		Program:     s.program,
		Commitment:  s.commitment,
		Logger:      s.logger,
		Metrics:     s.metrics,
		OnReceiving: onReceiving,
	})
	return session.Run(ctx)
}

// backoffDelay computes min(max, base^attempt + attempt mod 2) seconds.
func backoffDelay(base float64, attempt int, max time.Duration) time.Duration {
	seconds := math.Pow(base, float64(attempt)) + float64(attempt%2)
	if seconds >= max.Seconds() {
		return max
	}
	return time.Duration(seconds * float64(time.Second))
}

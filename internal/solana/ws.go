package solana

import "context"

// LogStream is one logical logsSubscribe connection. A stream does not
// reconnect: transport failure closes the notification channel and the
// terminal error is available through Err. Retry policy belongs to the
// caller.
type LogStream interface {
	// SubscribeLogs sends the subscription request and returns the
	// notification channel. The channel is closed on transport failure
	// or Close.
	SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan LogNotification, error)

	// Err returns the error that terminated the stream, if any.
	Err() error

	// Close closes the underlying connection.
	Close() error
}

// LogsFilter defines the logsSubscribe parameters.
type LogsFilter struct {
	// Mentions filters logs that mention any of these program IDs.
	Mentions []string
	// Commitment is the confirmation level ("processed", "confirmed",
	// "finalized"). Empty defaults to "processed".
	Commitment string
}

// LogNotification represents a logs subscription message.
type LogNotification struct {
	Signature string
	Slot      int64
	Logs      []string
	Err       interface{}
}

package ingestion

import "errors"

// ErrRetryExhausted is returned by the supervisor when the reconnect ceiling
// is exceeded. Recovery from it requires a full process restart.
var ErrRetryExhausted = errors.New("reconnect retries exhausted")

package sim

import "sync/atomic"

// CancelToken is a one-shot cooperative cancel flag. It is polled, never
// preemptive: before each balance level, before each batch of trials and
// once per bet. The zero value is ready to use.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns an unset token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel sets the flag. It reports whether this call was the one that set it.
// Safe on a nil token.
func (t *CancelToken) Cancel() bool {
	if t == nil {
		return false
	}
	return t.cancelled.CompareAndSwap(false, true)
}

// Cancelled reports whether cancellation was requested. A nil token is
// never cancelled.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

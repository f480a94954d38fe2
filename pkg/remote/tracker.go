package remote

import (
	"sync"

	"github.com/google/uuid"
)

// RequestTracker hands out a token per outbound request and remembers the
// latest one. A response is only used if its token is still current; a newer
// request or a roster change makes older tokens stale.
type RequestTracker struct {
	mu      sync.Mutex
	current string
}

// Begin issues a new token and makes it current.
func (t *RequestTracker) Begin() string {
	token := uuid.NewString()
	t.mu.Lock()
	t.current = token
	t.mu.Unlock()
	return token
}

// Invalidate makes every outstanding token stale.
func (t *RequestTracker) Invalidate() {
	t.mu.Lock()
	t.current = ""
	t.mu.Unlock()
}

// IsCurrent reports whether token is the latest issued and not invalidated.
func (t *RequestTracker) IsCurrent(token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return token != "" && token == t.current
}

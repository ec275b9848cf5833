package notify

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 2 * time.Second

// Notifier holds at most one transient message. A new message replaces the
// current one and reschedules the clear; nothing is queued.
type Notifier struct {
	mu      sync.Mutex
	ttl     time.Duration
	message string
	timer   *time.Timer
	gen     uint64
}

// New returns a notifier whose messages clear after ttl.
// A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Notifier{ttl: ttl}
}

// Notify shows msg and schedules it to clear after the TTL.
func (n *Notifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
	}
	n.gen++
	gen := n.gen
	n.message = msg
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
}

// expire clears the message only if no newer one replaced it.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if gen != n.gen {
		return
	}
	n.message = ""
	n.timer = nil
}

// Current returns the visible message, or "" when none is shown.
func (n *Notifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.message
}

// TTL reports the configured display duration.
func (n *Notifier) TTL() time.Duration {
	return n.ttl
}

// Stop cancels the pending clear and hides the current message.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.gen++
	n.message = ""
}

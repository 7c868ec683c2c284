// Package notify keeps a bounded feed of auto-expiring notifications. The
// presentation layer reads Active and draws however it likes; nothing here
// touches the terminal or the DOM.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Feed struct {
	mu    sync.Mutex
	ttl   time.Duration
	max   int
	items []Notification
	now   func() time.Time
}

func NewFeed(ttl time.Duration, max int) *Feed {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if max <= 0 {
		max = 20
	}
	return &Feed{ttl: ttl, max: max, now: time.Now}
}

func (f *Feed) Push(level Level, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, Notification{
		ID:        uuid.New().String(),
		Level:     level,
		Message:   message,
		CreatedAt: f.now(),
	})
	if len(f.items) > f.max {
		f.items = f.items[len(f.items)-f.max:]
	}
}

// Active returns unexpired notifications, oldest first, pruning the rest.
func (f *Feed) Active() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	cutoff := f.now().Add(-f.ttl)
	kept := f.items[:0]
	for _, n := range f.items {
		if n.CreatedAt.After(cutoff) {
			kept = append(kept, n)
		}
	}
	f.items = kept

	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

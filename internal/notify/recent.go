package notify

import (
	"sync"

	"portfolio/internal/domain"
)

// Recent keeps the last few notifications for clients that poll.
type Recent struct {
	mu    sync.Mutex
	limit int
	items []domain.Notification
}

func NewRecent(limit int) *Recent {
	if limit <= 0 {
		limit = 20
	}
	return &Recent{limit: limit}
}

func (r *Recent) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	if len(r.items) > r.limit {
		r.items = r.items[len(r.items)-r.limit:]
	}
}

// List returns the kept notifications, newest first.
func (r *Recent) List() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Notification, len(r.items))
	for i, n := range r.items {
		out[len(r.items)-1-i] = n
	}
	return out
}

package service

import (
	"context"
	"sync"

	"github.com/msomdec/discount-pro/internal/domain"
)

const defaultToastLimit = 8

// ToastQueue buffers notifications for one client until the view layer
// drains them into a response. When full, the oldest entry is dropped.
type ToastQueue struct {
	mu      sync.Mutex
	pending []domain.Notification
	limit   int
}

// NewToastQueue creates a queue holding at most limit notifications.
func NewToastQueue(limit int) *ToastQueue {
	if limit <= 0 {
		limit = defaultToastLimit
	}
	return &ToastQueue{limit: limit}
}

// Notify implements domain.Notifier.
func (q *ToastQueue) Notify(_ context.Context, n domain.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, n)
	if over := len(q.pending) - q.limit; over > 0 {
		q.pending = q.pending[over:]
	}
}

// Drain returns and clears the pending notifications.
func (q *ToastQueue) Drain() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.pending
	q.pending = nil
	return out
}

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, domain.Notification) {}

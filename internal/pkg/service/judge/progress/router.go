package progress

import (
	"context"
	"sync"

	"github.com/algomarket/problem-service/internal/pkg/service/judge/model"
)

// NotificationHandler processes one progress notification.
type NotificationHandler func(ctx context.Context, notification model.ProgressNotification)

// Router is the in-process fan-out of progress notifications.
// It separates "a progress update happened" from "who should see it".
type Router struct {
	lock     sync.RWMutex
	handlers []NotificationHandler
}

func NewRouter() *Router {
	return &Router{}
}

// Subscribe registers a handler for all routed notifications.
func (r *Router) Subscribe(handler NotificationHandler) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.handlers = append(r.handlers, handler)
}

// Publish delivers the notification to all registered handlers, synchronously.
func (r *Router) Publish(ctx context.Context, notification model.ProgressNotification) {
	r.lock.RLock()
	handlers := make([]NotificationHandler, len(r.handlers))
	copy(handlers, r.handlers)
	r.lock.RUnlock()

	for _, handler := range handlers {
		handler(ctx, notification)
	}
}

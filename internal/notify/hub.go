package notify

import (
	"context"
	"sync"

	"laklight-scheduling/internal/domain"
	"laklight-scheduling/internal/logx"
)

type counter interface {
	Inc()
}

// Hub fans reschedule notifications out to in-process subscribers, so the
// employee dashboard is pushed to instead of polling the pending list.
// Publish never blocks: a subscriber that falls behind loses the event and
// recovers it from the pending list (at-least-once overall, consumers
// dedupe by notification id).
type Hub struct {
	mu        sync.Mutex
	subs      map[int]chan domain.Notification
	nextID    int
	buffer    int
	published counter
	logger    logx.Logger
}

// NewHub creates a hub with the given per-subscriber buffer size.
// published counts delivered events; nil disables it.
func NewHub(buffer int, published counter, logger logx.Logger) *Hub {
	if buffer < 1 {
		buffer = 16
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Hub{
		subs:      make(map[int]chan domain.Notification),
		buffer:    buffer,
		published: published,
		logger:    logger,
	}
}

// Subscribe registers a subscriber bound to ctx. The channel closes when
// cancel is called or ctx is done.
func (h *Hub) Subscribe(ctx context.Context) (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, h.buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}

	stop := context.AfterFunc(ctx, cancel)
	return ch, func() {
		stop()
		cancel()
	}
}

// Publish delivers n to every current subscriber.
func (h *Hub) Publish(n domain.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- n:
			if h.published != nil {
				h.published.Inc()
			}
		default:
			h.logger.Warn("notification dropped for slow subscriber",
				logx.Int("subscriber", id),
				logx.String("notification_id", n.ID),
			)
		}
	}
}

// Subscribers returns the number of active subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

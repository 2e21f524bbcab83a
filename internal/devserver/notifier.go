package devserver

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/taskbuddy/taskbuddy-go/internal/core/domain"
	"github.com/taskbuddy/taskbuddy-go/internal/devserver/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Notifier routes notifications to a fixed set of workers sharded by
// recipient id, guaranteeing per-recipient delivery ordering. Each worker
// stores the notification and pushes it over the hub.
type Notifier struct {
	workers []chan domain.Notification
	store   *Store
	hub     *Hub
	log     zerolog.Logger
}

// NewNotifier creates a Notifier with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewNotifier(numWorkers int, store *Store, hub *Hub, log zerolog.Logger) *Notifier {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	n := &Notifier{
		workers: make([]chan domain.Notification, numWorkers),
		store:   store,
		hub:     hub,
		log:     log,
	}
	for i := range n.workers {
		n.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return n
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (n *Notifier) Start(ctx context.Context) {
	for i, ch := range n.workers {
		go n.runWorker(ctx, i, ch)
	}
}

// Notify enqueues a notification for the worker owning its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (n *Notifier) Notify(recipientID int64, typ domain.NotificationType, message string) {
	if recipientID == 0 {
		return
	}
	idx := int(recipientID % int64(len(n.workers)))
	n.workers[idx] <- domain.Notification{
		Message:     message,
		Type:        typ,
		RecipientID: recipientID,
	}
	metrics.NotificationsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(n.workers[idx])))
}

func (n *Notifier) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			stored := n.store.AddNotification(event)
			n.hub.Push(stored)
			metrics.NotificationsDeliveredTotal.WithLabelValues(string(stored.Type)).Inc()
			metrics.NotificationsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		}
	}
}

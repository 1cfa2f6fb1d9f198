package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/queue"
	"github.com/visaflow/backend/internal/services/notify"
)

// NotificationRetryPayload is the job payload for one failed channel
// send. The rendered message is carried in full so the retry does not
// depend on the original notification still being reconstructable.
type NotificationRetryPayload struct {
	UserID       uuid.UUID      `json:"user_id"`
	Channel      notify.Channel `json:"channel"`
	Title        string         `json:"title"`
	Body         string         `json:"body"`
	WhatsAppText string         `json:"whatsapp_text,omitempty"`
	Cause        string         `json:"cause"`
}

// QueueRetrier implements notify.Retrier on top of the job queue, so a
// channel send that fails inside a request is attempted again later
// with the queue's backoff.
type QueueRetrier struct {
	queue *queue.Queue
}

// NewQueueRetrier creates a retrier backed by the given queue.
func NewQueueRetrier(q *queue.Queue) *QueueRetrier {
	return &QueueRetrier{queue: q}
}

// ScheduleRetry enqueues the failed send.
func (r *QueueRetrier) ScheduleRetry(ctx context.Context, userID uuid.UUID, channel notify.Channel, msg notify.Message, cause error) error {
	_, err := r.queue.Enqueue(ctx, queue.JobTypeNotificationRetry, NotificationRetryPayload{
		UserID:       userID,
		Channel:      channel,
		Title:        msg.Title,
		Body:         msg.Body,
		WhatsAppText: msg.WhatsAppText,
		Cause:        cause.Error(),
	})
	return err
}

// RegisterNotificationRetryHandler wires the retry job to the channel
// senders. The handler returns an error when the send fails again, which
// puts the job back on the queue with backoff.
func RegisterNotificationRetryHandler(q *queue.Queue, store notify.Store, senders []notify.Sender) {
	byChannel := make(map[notify.Channel]notify.Sender, len(senders))
	for _, s := range senders {
		byChannel[s.Channel()] = s
	}

	q.RegisterHandler(queue.JobTypeNotificationRetry, func(ctx context.Context, job queue.Job) error {
		var payload NotificationRetryPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("invalid retry payload: %w", err)
		}

		sender, ok := byChannel[payload.Channel]
		if !ok {
			return fmt.Errorf("no sender for channel %s", payload.Channel)
		}

		user, err := store.GetUser(ctx, payload.UserID)
		if err != nil {
			return fmt.Errorf("recipient lookup failed: %w", err)
		}

		return sender.Send(ctx, user, notify.Message{
			Title:        payload.Title,
			Body:         payload.Body,
			WhatsAppText: payload.WhatsAppText,
		})
	})
}

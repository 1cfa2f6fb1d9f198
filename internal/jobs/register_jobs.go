package jobs

import (
	"time"

	"github.com/go-co-op/gocron"
	"github.com/visaflow/backend/internal/queue"
	"github.com/visaflow/backend/internal/services/notify"
	"github.com/visaflow/backend/internal/services/payment"
)

// RegisterAllJobHandlers registers every queue job handler.
func RegisterAllJobHandlers(q *queue.Queue, notifyStore notify.Store, senders []notify.Sender) {
	RegisterNotificationRetryHandler(q, notifyStore, senders)
}

// StartScheduler creates the recurring-job scheduler and registers the
// recurring jobs on it. The returned scheduler is already running.
func StartScheduler(tracker *payment.Tracker) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)

	if err := SchedulePaymentExpiry(scheduler, tracker); err != nil {
		return nil, err
	}

	scheduler.StartAsync()
	return scheduler, nil
}

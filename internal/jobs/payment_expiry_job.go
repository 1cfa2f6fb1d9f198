package jobs

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/visaflow/backend/internal/services/payment"
)

// staleOrderAge is how long a payment order may sit unpaid before the
// expiry sweep cancels it.
const staleOrderAge = 24 * time.Hour

// SchedulePaymentExpiry runs an hourly sweep that expires payment
// orders the customer abandoned.
func SchedulePaymentExpiry(scheduler *gocron.Scheduler, tracker *payment.Tracker) error {
	_, err := scheduler.Every(1).Hour().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := tracker.ExpireStaleOrders(ctx, staleOrderAge); err != nil {
			log.Printf("jobs: payment expiry sweep failed: %v", err)
		}
	})
	return err
}

// Package notify delivers one message to one user over the enabled
// channels. The in-app Notification row is always written first, so the
// user's notification feed survives provider outages; external channel
// sends are best effort and never fail the caller.
package notify

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/models"
)

// Channel is one delivery medium.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Message is the rendered content handed to a channel sender.
type Message struct {
	Title string
	Body  string
	// WhatsAppText, when set, replaces Body for the WhatsApp channel,
	// which wants shorter copy than email.
	WhatsAppText string
}

// Input describes one notification to dispatch.
type Input struct {
	UserID        uuid.UUID
	ApplicationID *uuid.UUID
	Type          models.NotificationType
	Title         string
	Message       string
	WhatsAppText  string
}

// ChannelResult reports the outcome of one channel attempt. A nil Err
// means the provider accepted the message.
type ChannelResult struct {
	Channel Channel
	Err     error
}

// Sender delivers a message to a user over one channel.
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, user *models.User, msg Message) error
}

// Store persists notification rows and resolves recipients.
type Store interface {
	SaveNotification(ctx context.Context, n *models.Notification) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Retrier receives channel sends that failed so they can be attempted
// again later. The dispatcher works without one; failures are then only
// logged and reported in the ChannelResult.
type Retrier interface {
	ScheduleRetry(ctx context.Context, userID uuid.UUID, channel Channel, msg Message, cause error) error
}

// Dispatcher fans one message out to every enabled channel.
type Dispatcher struct {
	store   Store
	toggles *Toggles
	senders []Sender
	retrier Retrier
}

// NewDispatcher creates a dispatcher. retrier may be nil.
func NewDispatcher(store Store, toggles *Toggles, senders []Sender, retrier Retrier) *Dispatcher {
	return &Dispatcher{
		store:   store,
		toggles: toggles,
		senders: senders,
		retrier: retrier,
	}
}

// Toggles exposes the channel toggles so the settings service can
// refresh them when an admin flips a switch.
func (d *Dispatcher) Toggles() *Toggles {
	return d.toggles
}

// Dispatch persists the in-app notification and attempts delivery over
// each enabled channel. Channel failures are independent: one provider
// erroring does not stop the others, and nothing here is returned as an
// error to the caller. The per-channel outcomes are returned so callers
// that care (and tests) can observe partial failure.
func (d *Dispatcher) Dispatch(ctx context.Context, in Input) []ChannelResult {
	notification := &models.Notification{
		UserID:        in.UserID,
		ApplicationID: in.ApplicationID,
		Type:          in.Type,
		Title:         in.Title,
		Message:       in.Message,
	}
	if err := d.store.SaveNotification(ctx, notification); err != nil {
		// The in-app row is the one thing we insist on; without it there
		// is nothing to deliver against.
		log.Printf("notify: failed to persist notification for user %s: %v", in.UserID, err)
		return nil
	}

	user, err := d.store.GetUser(ctx, in.UserID)
	if err != nil {
		log.Printf("notify: recipient %s not found, skipping channel delivery: %v", in.UserID, err)
		return nil
	}

	msg := Message{
		Title:        in.Title,
		Body:         in.Message,
		WhatsAppText: in.WhatsAppText,
	}

	var results []ChannelResult
	for _, sender := range d.senders {
		ch := sender.Channel()
		if !d.toggles.Enabled(ch) {
			continue
		}

		err := sender.Send(ctx, user, msg)
		if err != nil {
			log.Printf("notify: %s delivery to user %s failed: %v", ch, user.ID, err)
			if d.retrier != nil {
				if rerr := d.retrier.ScheduleRetry(ctx, user.ID, ch, msg, err); rerr != nil {
					log.Printf("notify: could not schedule %s retry for user %s: %v", ch, user.ID, rerr)
				}
			}
		}
		results = append(results, ChannelResult{Channel: ch, Err: err})
	}
	return results
}

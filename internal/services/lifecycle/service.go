// Package lifecycle moves visa applications through their status
// workflow and records why. Every transition is validated against the
// workflow transition table before anything is written, appends exactly
// one history row, and fans a notification out to the affected users.
// Notification failures never roll a status change back.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/visaflow/backend/internal/models"
	"github.com/visaflow/backend/internal/services/notify"
	"github.com/visaflow/backend/internal/services/payment"
	"github.com/visaflow/backend/internal/workflow"
)

var (
	// ErrNotFound means the application does not exist.
	ErrNotFound = errors.New("application not found")
	// ErrForbidden means the actor may not perform this action.
	ErrForbidden = errors.New("not allowed to act on this application")
	// ErrNoEmployee means auto-assignment found no active employee.
	ErrNoEmployee = errors.New("no active employee available")
	// ErrBadAssignee means the assignment target is not an active employee.
	ErrBadAssignee = errors.New("assignee must be an active employee")
)

// Store persists applications, history rows and resolves users.
type Store interface {
	GetApplication(ctx context.Context, id uuid.UUID) (*models.VisaApplication, error)
	// SaveWithHistory writes the application and its history row in one
	// transaction so a transition is never recorded without its audit
	// entry.
	SaveWithHistory(ctx context.Context, app *models.VisaApplication, history *models.ApplicationStatusHistory) error
	AppendHistory(ctx context.Context, history *models.ApplicationStatusHistory) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	// LeastLoadedEmployee returns the active employee with the fewest
	// open assignments, or ErrNoEmployee.
	LeastLoadedEmployee(ctx context.Context) (*models.User, error)
}

// Notifier is the slice of the notification dispatcher the lifecycle
// needs. Dispatch never returns an error; per-channel outcomes are
// logged by the dispatcher itself.
type Notifier interface {
	Dispatch(ctx context.Context, in notify.Input) []notify.ChannelResult
}

// Service orchestrates application status changes.
type Service struct {
	store      Store
	notifier   Notifier
	autoAssign bool
}

// NewService creates a lifecycle service. When autoAssign is set,
// submitted applications without an assignee are routed to the least
// loaded active employee.
func NewService(store Store, notifier Notifier, autoAssign bool) *Service {
	return &Service{store: store, notifier: notifier, autoAssign: autoAssign}
}

// Submit moves a customer's own application from draft (or resent) to
// submitted, stamps submittedAt, optionally auto-assigns a reviewer,
// appends the history row and notifies customer and assignee.
func (s *Service) Submit(ctx context.Context, applicationID, actorID uuid.UUID) (*models.VisaApplication, error) {
	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CustomerID != actorID {
		return nil, ErrForbidden
	}

	action := workflow.ActionSubmit
	if app.Status == models.StatusResent {
		action = workflow.ActionResubmit
	}
	newStatus, err := workflow.Next(app.Status, action)
	if err != nil {
		return nil, err
	}

	oldStatus := app.Status
	now := time.Now()
	app.Status = newStatus
	app.SubmittedAt = &now

	if s.autoAssign && app.AssignedTo == nil {
		employee, err := s.store.LeastLoadedEmployee(ctx)
		if err != nil {
			// submission proceeds unassigned; an admin can assign later
			log.Printf("lifecycle: auto-assign skipped for %s: %v", app.ApplicationNumber, err)
		} else {
			app.AssignedTo = &employee.ID
		}
	}

	history := &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     actorID,
	}
	if err := s.store.SaveWithHistory(ctx, app, history); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, notify.Input{
		UserID:        app.CustomerID,
		ApplicationID: &app.ID,
		Type:          models.NotificationTypeApplication,
		Title:         "Application Submitted",
		Message:       fmt.Sprintf("Your visa application %s has been submitted and is awaiting review.", app.ApplicationNumber),
		WhatsAppText:  fmt.Sprintf("VisaFlow: application %s submitted.", app.ApplicationNumber),
	})
	if app.AssignedTo != nil {
		s.notifier.Dispatch(ctx, notify.Input{
			UserID:        *app.AssignedTo,
			ApplicationID: &app.ID,
			Type:          models.NotificationTypeApplication,
			Title:         "Application Assigned",
			Message:       fmt.Sprintf("Application %s has been assigned to you for review.", app.ApplicationNumber),
		})
	}

	return app, nil
}

// UpdateStatus applies a review decision. Only employees and admins may
// call it; the target status must map to a legal workflow action from
// the application's current status.
func (s *Service) UpdateStatus(ctx context.Context, applicationID, actorID uuid.UUID, target models.ApplicationStatus, comments string) (*models.VisaApplication, error) {
	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.UserType != models.UserTypeEmployee && actor.UserType != models.UserTypeAdmin {
		return nil, ErrForbidden
	}

	action, ok := workflow.ActionForStatus(target)
	if !ok {
		return nil, fmt.Errorf("status %q cannot be requested", target)
	}

	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	newStatus, err := workflow.Next(app.Status, action)
	if err != nil {
		return nil, err
	}

	oldStatus := app.Status
	now := time.Now()
	app.Status = newStatus
	switch newStatus {
	case models.StatusUnderReview:
		app.ReviewedAt = &now
	case models.StatusApproved:
		app.ApprovedAt = &now
		if app.ReviewedAt == nil {
			app.ReviewedAt = &now
		}
	case models.StatusRejected:
		app.RejectionReason = comments
	case models.StatusResent:
		app.ResendReason = comments
	}

	history := &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		ChangedBy:     actorID,
		Comments:      comments,
	}
	if err := s.store.SaveWithHistory(ctx, app, history); err != nil {
		return nil, err
	}

	title, message, whatsapp := statusNotification(app, newStatus, comments)
	s.notifier.Dispatch(ctx, notify.Input{
		UserID:        app.CustomerID,
		ApplicationID: &app.ID,
		Type:          models.NotificationTypeApplication,
		Title:         title,
		Message:       message,
		WhatsAppText:  whatsapp,
	})

	return app, nil
}

// Assign routes an application to an employee. Re-assigning the same
// employee is a no-op. The target must be an active employee account.
func (s *Service) Assign(ctx context.Context, applicationID, employeeID, actorID uuid.UUID) (*models.VisaApplication, error) {
	employee, err := s.store.GetUser(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee.UserType != models.UserTypeEmployee || !employee.IsActive() {
		return nil, ErrBadAssignee
	}

	app, err := s.store.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.AssignedTo != nil && *app.AssignedTo == employeeID {
		return app, nil
	}

	app.AssignedTo = &employeeID
	history := &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		OldStatus:     app.Status,
		NewStatus:     app.Status,
		ChangedBy:     actorID,
		Comments:      fmt.Sprintf("Assigned to %s", employee.FullName()),
	}
	if err := s.store.SaveWithHistory(ctx, app, history); err != nil {
		return nil, err
	}

	s.notifier.Dispatch(ctx, notify.Input{
		UserID:        employeeID,
		ApplicationID: &app.ID,
		Type:          models.NotificationTypeApplication,
		Title:         "Application Assigned",
		Message:       fmt.Sprintf("Application %s has been assigned to you for review.", app.ApplicationNumber),
	})

	return app, nil
}

// HandlePaymentVerified consumes the payment tracker's verification
// event: it records the payment on the application's history and sends
// the customer a receipt. It deliberately does not advance the status;
// fee collection and review remain separate tracks.
func (s *Service) HandlePaymentVerified(ctx context.Context, event payment.VerifiedEvent) {
	app, err := s.store.GetApplication(ctx, event.ApplicationID)
	if err != nil {
		log.Printf("lifecycle: payment verified for unknown application %s: %v", event.ApplicationID, err)
		return
	}

	history := &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		OldStatus:     app.Status,
		NewStatus:     app.Status,
		ChangedBy:     app.CustomerID,
		Comments:      fmt.Sprintf("Payment %s verified (%s %s)", event.Reference, event.Amount.StringFixed(2), event.Currency),
	}
	if err := s.store.AppendHistory(ctx, history); err != nil {
		log.Printf("lifecycle: failed to record payment history for %s: %v", app.ApplicationNumber, err)
	}

	s.notifier.Dispatch(ctx, notify.Input{
		UserID:        app.CustomerID,
		ApplicationID: &app.ID,
		Type:          models.NotificationTypePayment,
		Title:         "Payment Received",
		Message:       fmt.Sprintf("We received your payment of %s %s for application %s.", event.Amount.StringFixed(2), event.Currency, app.ApplicationNumber),
		WhatsAppText:  fmt.Sprintf("VisaFlow: payment for %s received.", app.ApplicationNumber),
	})
}

// statusNotification renders the customer-facing message for a review
// decision.
func statusNotification(app *models.VisaApplication, status models.ApplicationStatus, comments string) (title, message, whatsapp string) {
	switch status {
	case models.StatusUnderReview:
		title = "Application Under Review"
		message = fmt.Sprintf("Your visa application %s is now under review.", app.ApplicationNumber)
		whatsapp = fmt.Sprintf("VisaFlow: application %s is under review.", app.ApplicationNumber)
	case models.StatusApproved:
		title = "Application Approved"
		message = fmt.Sprintf("Congratulations! Your visa application %s has been approved.", app.ApplicationNumber)
		whatsapp = fmt.Sprintf("VisaFlow: application %s APPROVED.", app.ApplicationNumber)
	case models.StatusRejected:
		title = "Application Rejected"
		message = fmt.Sprintf("Your visa application %s has been rejected. Reason: %s", app.ApplicationNumber, comments)
		whatsapp = fmt.Sprintf("VisaFlow: application %s was rejected.", app.ApplicationNumber)
	case models.StatusResent:
		title = "Additional Information Required"
		message = fmt.Sprintf("Your visa application %s needs attention before review can continue: %s", app.ApplicationNumber, comments)
		whatsapp = fmt.Sprintf("VisaFlow: application %s needs more information.", app.ApplicationNumber)
	default:
		title = "Application Update"
		message = fmt.Sprintf("Your visa application %s status changed to %s.", app.ApplicationNumber, status)
	}
	return title, message, whatsapp
}

package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"tripbook/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripCreated   NotificationType = "TRIP_CREATED"
	NotificationTripActivated NotificationType = "TRIP_ACTIVATED"
	NotificationTripCompleted NotificationType = "TRIP_COMPLETED"
	NotificationTripCanceled  NotificationType = "TRIP_CANCELED"
	NotificationRefundIssued  NotificationType = "REFUND_ISSUED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real deployment this would hold push/SMS/email clients.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyTripCreated notifies the rider that the trip was committed and the
// balance debited.
func (s *NotificationService) NotifyTripCreated(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, Notification{
		Type:        NotificationTripCreated,
		RecipientID: trip.AccountID,
		Title:       "Trip Booked",
		Message:     fmt.Sprintf("Your trip is booked. $%s was charged to your balance.", trip.Price.StringFixed(2)),
		Data: map[string]interface{}{
			"trip_id": trip.ID,
			"price":   trip.Price.StringFixed(2),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyTripStatusChanged notifies the rider of a lifecycle transition.
func (s *NotificationService) NotifyTripStatusChanged(ctx context.Context, trip *domain.Trip) error {
	var typ NotificationType
	var title string
	switch trip.Status {
	case domain.TripStatusActive:
		typ, title = NotificationTripActivated, "Trip Started"
	case domain.TripStatusCompleted:
		typ, title = NotificationTripCompleted, "Trip Completed"
	case domain.TripStatusCanceled:
		typ, title = NotificationTripCanceled, "Trip Canceled"
	default:
		return nil
	}

	return s.send(ctx, Notification{
		Type:        typ,
		RecipientID: trip.AccountID,
		Title:       title,
		Message:     fmt.Sprintf("Your trip is now %s.", trip.Status),
		Data: map[string]interface{}{
			"trip_id": trip.ID,
			"status":  string(trip.Status),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRefundIssued notifies the rider that the cancellation refund was
// credited.
func (s *NotificationService) NotifyRefundIssued(ctx context.Context, trip *domain.Trip) error {
	return s.send(ctx, Notification{
		Type:        NotificationRefundIssued,
		RecipientID: trip.AccountID,
		Title:       "Refund Issued",
		Message:     fmt.Sprintf("$%s was refunded to your balance.", trip.Price.StringFixed(2)),
		Data: map[string]interface{}{
			"trip_id": trip.ID,
			"amount":  trip.Price.StringFixed(2),
		},
		CreatedAt: time.Now(),
	})
}

// send delivers the notification. Mocked: logs instead of pushing.
func (s *NotificationService) send(ctx context.Context, n Notification) error {
	log.Printf("[NOTIFICATION] type=%s recipient=%s title=%q message=%q", n.Type, n.RecipientID, n.Title, n.Message)
	return nil
}

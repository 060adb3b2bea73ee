package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"rental/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationPaymentSubmitted NotificationType = "PAYMENT_SUBMITTED"
	NotificationPaymentVerified  NotificationType = "PAYMENT_VERIFIED"
	NotificationPaymentRejected  NotificationType = "PAYMENT_REJECTED"
	NotificationCarPickedUp      NotificationType = "CAR_PICKED_UP"
	NotificationCarReturned      NotificationType = "CAR_RETURNED"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Email client (the customer's contact email is on the booking)
	// - SMS client for the contact phone
	// - Push notifications for the admin back-office
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingCreated notifies the customer that their booking was received.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCreated,
		RecipientID: booking.UserID,
		Title:       "Booking Received",
		Message:     fmt.Sprintf("Your booking %s is awaiting confirmation", booking.InvoiceNumber),
		Data: map[string]interface{}{
			"booking_id":  booking.ID,
			"car_id":      booking.CarID,
			"total_price": booking.TotalPrice,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingConfirmed notifies the customer of confirmation.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingConfirmed,
		RecipientID: booking.UserID,
		Title:       "Booking Confirmed",
		Message:     fmt.Sprintf("Booking %s has been confirmed", booking.InvoiceNumber),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCancelled notifies the customer of cancellation.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: booking.UserID,
		Title:       "Booking Cancelled",
		Message:     fmt.Sprintf("Booking %s has been cancelled", booking.InvoiceNumber),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentSubmitted notifies admins that a payment awaits verification.
func (s *NotificationService) NotifyPaymentSubmitted(ctx context.Context, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentSubmitted,
		RecipientID: payment.BookingID,
		Title:       "Payment Awaiting Verification",
		Message:     fmt.Sprintf("Payment %s of %d awaits verification", payment.InvoiceNumber, payment.Amount),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"booking_id": payment.BookingID,
			"amount":     payment.Amount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentVerified notifies the customer that a payment was approved.
func (s *NotificationService) NotifyPaymentVerified(ctx context.Context, payment *domain.Payment, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentVerified,
		RecipientID: booking.UserID,
		Title:       "Payment Verified",
		Message:     fmt.Sprintf("Payment %s of %d was verified", payment.InvoiceNumber, payment.Amount),
		Data: map[string]interface{}{
			"payment_id":     payment.ID,
			"booking_id":     booking.ID,
			"payment_status": booking.PaymentStatus,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentRejected notifies the customer that a payment was rejected.
func (s *NotificationService) NotifyPaymentRejected(ctx context.Context, payment *domain.Payment, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentRejected,
		RecipientID: booking.UserID,
		Title:       "Payment Rejected",
		Message:     fmt.Sprintf("Payment %s of %d was rejected. Please submit a new payment.", payment.InvoiceNumber, payment.Amount),
		Data: map[string]interface{}{
			"payment_id": payment.ID,
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyCarPickedUp notifies the customer that pickup was recorded.
func (s *NotificationService) NotifyCarPickedUp(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationCarPickedUp,
		RecipientID: booking.UserID,
		Title:       "Car Picked Up",
		Message:     fmt.Sprintf("Pickup recorded at %s. Enjoy your rental!", booking.PickupLocation),
		Data: map[string]interface{}{
			"booking_id":  booking.ID,
			"pickup_time": booking.PickupTime,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyCarReturned notifies the customer that the rental is complete.
func (s *NotificationService) NotifyCarReturned(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationCarReturned,
		RecipientID: booking.UserID,
		Title:       "Rental Completed",
		Message:     fmt.Sprintf("Return recorded at %s. Thank you!", booking.ReturnLocation),
		Data: map[string]interface{}{
			"booking_id":  booking.ID,
			"return_time": booking.ReturnTime,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would:
	// 1. Store notification in database
	// 2. Send email to the booking's contact address
	// 3. Send SMS if enabled
	// 4. Notify the admin back-office

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}

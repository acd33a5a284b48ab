package domain

import "time"

// BookingStatus represents the current status of a session booking.
type BookingStatus string

const (
	BookingStatusPending BookingStatus = "PENDING"
	BookingStatusPaid    BookingStatus = "PAID"
)

// SessionBooking is an audit record of a tutoring-session checkout attempt.
// It is written before the payer is redirected and is not consulted for
// business logic; the checkout session itself is the source of truth.
type SessionBooking struct {
	ID              string
	CourseName      string
	StudentName     string
	StudentEmail    string
	SessionDate     string // "2006-01-02 15:04" date and time combined
	Amount          float64
	Currency        string
	StripeSessionID string
	Status          BookingStatus
	CreatedAt       time.Time
}

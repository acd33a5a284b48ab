package service

import "errors"

var (
	// ErrMissingCode is returned when the redemption code is empty.
	ErrMissingCode = errors.New("payment code is required")

	// ErrCodeNotFound is returned for unknown, used and in-flight codes
	// alike, so the response never reveals whether a code exists.
	ErrCodeNotFound = errors.New("invalid or already used payment code")

	// ErrInvalidAmount is returned when a code carries a non-positive amount.
	ErrInvalidAmount = errors.New("invalid payment amount")

	// ErrMissingBookingFields is returned when a booking request lacks required fields.
	ErrMissingBookingFields = errors.New("missing required fields: courseName, studentName, studentEmail, sessionDate, sessionTime")

	// ErrSessionCreateFailed is returned when the provider rejects a
	// checkout session. The provider detail is logged, not surfaced.
	ErrSessionCreateFailed = errors.New("payment session failed")

	// ErrStoreUnavailable is returned when the code store itself fails.
	// The driver detail is logged, not surfaced.
	ErrStoreUnavailable = errors.New("service temporarily unavailable")

	// ErrInvalidSignature is returned when webhook signature verification fails.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrMissingSessionID is returned when the invoice lookup has no session id.
	ErrMissingSessionID = errors.New("session id is required")

	// ErrInvoiceNotAvailable is returned when no invoice exists yet and
	// none can be synthesized. The success page treats this as "not ready".
	ErrInvoiceNotAvailable = errors.New("no invoice available for this session yet")

	// ErrInvoiceLookupFailed is returned when the provider call itself fails.
	ErrInvoiceLookupFailed = errors.New("failed to get invoice")
)

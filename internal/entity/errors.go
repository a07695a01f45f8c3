package entity

import "errors"

var (
	// Booking errors
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrInvalidStatus      = errors.New("invalid booking status")
	ErrPhoneRequired      = errors.New("phone number is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrGuestCountRequired = errors.New("guest count must be positive")

	// Restaurant errors
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrInvalidWorkHours   = errors.New("invalid work hours format")

	// Infrastructure errors
	ErrTxSerialization = errors.New("transaction serialization conflict")
	ErrStoreTimeout    = errors.New("store operation timed out")
)

// RejectReason — машинно-различимый код отказа в приёме брони.
type RejectReason string

const (
	ReasonOutOfHours     RejectReason = "OUT_OF_HOURS"
	ReasonDuplicateGuest RejectReason = "DUPLICATE_GUEST"
	ReasonTableHeld      RejectReason = "TABLE_HELD"
	ReasonTimeConflict   RejectReason = "TIME_CONFLICT"
)

// AdmissionError — детерминированный бизнес-отказ: повтор того же
// запроса даст тот же результат, ретраи бессмысленны.
type AdmissionError struct {
	Reason  RejectReason
	Message string
}

func (e *AdmissionError) Error() string {
	return e.Message
}

func NewAdmissionError(reason RejectReason, message string) *AdmissionError {
	return &AdmissionError{Reason: reason, Message: message}
}

// AsAdmissionError возвращает AdmissionError из цепочки ошибок, если он там есть.
func AsAdmissionError(err error) (*AdmissionError, bool) {
	var ae *AdmissionError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

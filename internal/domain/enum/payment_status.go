package enum

import "database/sql/driver"

// PaymentStatus represents the verification status of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusVerified PaymentStatus = "VERIFIED"
	PaymentStatusRejected PaymentStatus = "REJECTED"
)

// IsValid reports whether the status is a recognized value
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusVerified, PaymentStatusRejected:
		return true
	}
	return false
}

// IsFinal reports whether the status is terminal. Verified and rejected
// payments never change status again.
func (s PaymentStatus) IsFinal() bool {
	return s == PaymentStatusVerified || s == PaymentStatusRejected
}

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	}
	return nil
}

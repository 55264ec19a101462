package enum

import "database/sql/driver"

// PaymentMethod represents how a customer pays for an order
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodYape     PaymentMethod = "YAPE"
	PaymentMethodPlin     PaymentMethod = "PLIN"
	PaymentMethodCash     PaymentMethod = "CASH"
)

// IsValid reports whether the method is a recognized value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodYape, PaymentMethodPlin, PaymentMethodCash:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = ""
		return nil
	}
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(v)
	}
	return nil
}

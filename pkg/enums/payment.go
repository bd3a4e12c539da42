package enums

import "fmt"

// PaymentCategory labels what a payment was charged for.
type PaymentCategory string

const (
	PaymentCategoryRental          PaymentCategory = "Alquiler"
	PaymentCategorySubscription    PaymentCategory = "Suscripción"
	PaymentCategoryRentalExtension PaymentCategory = "Extensión de Alquiler"
)

var validPaymentCategories = []PaymentCategory{
	PaymentCategoryRental,
	PaymentCategorySubscription,
	PaymentCategoryRentalExtension,
}

// String implements fmt.Stringer.
func (p PaymentCategory) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PaymentCategory) IsValid() bool {
	for _, candidate := range validPaymentCategories {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentCategory converts raw input into a PaymentCategory.
func ParsePaymentCategory(value string) (PaymentCategory, error) {
	for _, candidate := range validPaymentCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment category %q", value)
}

// PaymentStatus tracks the settlement state of a payment row. The simulated
// gateway settles instantly, so rows are written as completed.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "Completado"
	PaymentStatusDeclined  PaymentStatus = "Rechazado"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusCompleted,
	PaymentStatusDeclined,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

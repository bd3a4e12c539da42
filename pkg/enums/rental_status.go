package enums

import "fmt"

// RentalStatus tracks the lifecycle of a rental row. The stored values are
// the Spanish labels the catalog frontend renders verbatim.
type RentalStatus string

const (
	RentalStatusActive    RentalStatus = "Activo"
	RentalStatusCancelled RentalStatus = "Cancelado"
)

var validRentalStatuses = []RentalStatus{
	RentalStatusActive,
	RentalStatusCancelled,
}

// String implements fmt.Stringer.
func (r RentalStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r RentalStatus) IsValid() bool {
	for _, candidate := range validRentalStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRentalStatus converts raw input into a RentalStatus.
func ParseRentalStatus(value string) (RentalStatus, error) {
	for _, candidate := range validRentalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rental status %q", value)
}

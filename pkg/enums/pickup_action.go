package enums

import "fmt"

// PickupAction selects whether goods leave the shop during a pickup settlement.
type PickupAction string

const (
	PickupActionNow     PickupAction = "pickup_now"
	PickupActionPayOnly PickupAction = "pay_only"
)

var validPickupActions = []PickupAction{
	PickupActionNow,
	PickupActionPayOnly,
}

// String implements fmt.Stringer.
func (v PickupAction) String() string {
	return string(v)
}

// IsValid reports whether the value is a known PickupAction.
func (v PickupAction) IsValid() bool {
	for _, candidate := range validPickupActions {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParsePickupAction converts raw input into a PickupAction.
func ParsePickupAction(value string) (PickupAction, error) {
	for _, candidate := range validPickupActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup action %q", value)
}

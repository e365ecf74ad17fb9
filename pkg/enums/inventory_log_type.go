package enums

import "fmt"

// InventoryLogType classifies a stock mutation.
type InventoryLogType string

const (
	InventoryLogTypeIn     InventoryLogType = "in"
	InventoryLogTypeOut    InventoryLogType = "out"
	InventoryLogTypeOpname InventoryLogType = "opname"
)

var validInventoryLogTypes = []InventoryLogType{
	InventoryLogTypeIn,
	InventoryLogTypeOut,
	InventoryLogTypeOpname,
}

// String implements fmt.Stringer.
func (v InventoryLogType) String() string {
	return string(v)
}

// IsValid reports whether the value is a known InventoryLogType.
func (v InventoryLogType) IsValid() bool {
	for _, candidate := range validInventoryLogTypes {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseInventoryLogType converts raw input into a InventoryLogType.
func ParseInventoryLogType(value string) (InventoryLogType, error) {
	for _, candidate := range validInventoryLogTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid inventory log type %q", value)
}

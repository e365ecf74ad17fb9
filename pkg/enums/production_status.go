package enums

import "fmt"

// ProductionStatus is the workflow stage of an order.
type ProductionStatus string

const (
	ProductionStatusPendingDesign  ProductionStatus = "pending_design"
	ProductionStatusInDesign       ProductionStatus = "in_design"
	ProductionStatusDesignRevision ProductionStatus = "design_revision"
	ProductionStatusReadyToPrint   ProductionStatus = "ready_to_print"
	ProductionStatusInProduction   ProductionStatus = "in_production"
	ProductionStatusCompleted      ProductionStatus = "completed"
	ProductionStatusPickedUp       ProductionStatus = "picked_up"
)

var validProductionStatuses = []ProductionStatus{
	ProductionStatusPendingDesign,
	ProductionStatusInDesign,
	ProductionStatusDesignRevision,
	ProductionStatusReadyToPrint,
	ProductionStatusInProduction,
	ProductionStatusCompleted,
	ProductionStatusPickedUp,
}

// DesignQueueStatuses are the states an order waits in for the design desk.
var DesignQueueStatuses = []ProductionStatus{
	ProductionStatusPendingDesign,
	ProductionStatusInDesign,
	ProductionStatusDesignRevision,
}

// DesignTargets are the statuses a designer may set.
var DesignTargets = []ProductionStatus{
	ProductionStatusInDesign,
	ProductionStatusDesignRevision,
	ProductionStatusReadyToPrint,
}

// ProductionQueueStatuses are the states an order waits in for the print floor.
var ProductionQueueStatuses = []ProductionStatus{
	ProductionStatusReadyToPrint,
	ProductionStatusInProduction,
}

// ProductionTargets are the statuses an operator may set.
var ProductionTargets = []ProductionStatus{
	ProductionStatusInProduction,
	ProductionStatusCompleted,
}

// DesignHistoryStatuses are the states an order reaches once design work is handed off.
var DesignHistoryStatuses = []ProductionStatus{
	ProductionStatusReadyToPrint,
	ProductionStatusInProduction,
	ProductionStatusCompleted,
	ProductionStatusPickedUp,
}

// ProductionHistoryStatuses are the states an order reaches once printing is done.
var ProductionHistoryStatuses = []ProductionStatus{
	ProductionStatusCompleted,
	ProductionStatusPickedUp,
}

// String implements fmt.Stringer.
func (p ProductionStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductionStatus.
func (p ProductionStatus) IsValid() bool {
	return p.In(validProductionStatuses)
}

// In reports whether p is one of set.
func (p ProductionStatus) In(set []ProductionStatus) bool {
	for _, candidate := range set {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition exists.
func (p ProductionStatus) IsTerminal() bool {
	return p == ProductionStatusPickedUp
}

// ParseProductionStatus converts raw input into a ProductionStatus.
func ParseProductionStatus(value string) (ProductionStatus, error) {
	for _, candidate := range validProductionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid production status %q", value)
}

// ProductionStatusStrings renders set for SQL IN clauses.
func ProductionStatusStrings(set []ProductionStatus) []string {
	out := make([]string, 0, len(set))
	for _, s := range set {
		out = append(out, string(s))
	}
	return out
}

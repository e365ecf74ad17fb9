package workflow

import (
	"github.com/simkemas/simkemas-backend/pkg/enums"
)

// edges lists the forward moves of the production state machine. Re-saving the
// current state is always legal so notes and material usage can be appended.
var edges = map[enums.ProductionStatus][]enums.ProductionStatus{
	enums.ProductionStatusPendingDesign:  {enums.ProductionStatusInDesign},
	enums.ProductionStatusInDesign:       {enums.ProductionStatusDesignRevision, enums.ProductionStatusReadyToPrint},
	enums.ProductionStatusDesignRevision: {enums.ProductionStatusInDesign, enums.ProductionStatusReadyToPrint},
	enums.ProductionStatusReadyToPrint:   {enums.ProductionStatusInProduction},
	enums.ProductionStatusInProduction:   {enums.ProductionStatusCompleted},
	enums.ProductionStatusCompleted:      {enums.ProductionStatusPickedUp},
}

// Transitions decides whether a status change is allowed.
type Transitions struct {
	Strict bool
}

// Legal reports whether from -> to is an edge of the state machine.
func Legal(from, to enums.ProductionStatus) bool {
	if from == to {
		return !from.IsTerminal()
	}
	return to.In(edges[from])
}

// Allow reports whether the move is accepted under the configured mode.
// Permissive mode accepts every move.
func (t Transitions) Allow(from, to enums.ProductionStatus) bool {
	if !t.Strict {
		return true
	}
	return Legal(from, to)
}

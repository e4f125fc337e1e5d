package service

import "mixlab/internal/models"

// transitions is the reservation state machine. Terminal states have no
// outgoing edges; NoShow may be reopened by an administrator.
var transitions = map[string][]string{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCheckIn, models.StatusDone, models.StatusCancelled, models.StatusNoShow},
	models.StatusCheckIn:   {models.StatusDone},
	models.StatusNoShow:    {models.StatusConfirmed},
}

// CanTransition reports whether moving from one status to another follows
// the lifecycle. Administrators may still force any overwrite; that path is
// logged and flagged instead of validated here.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	for _, allowed := range transitions[from] {
		if to == allowed {
			return true
		}
	}
	return false
}

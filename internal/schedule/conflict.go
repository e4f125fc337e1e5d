package schedule

import "mixlab/internal/models"

// Overlaps is the canonical half-open interval test. An interval ending
// exactly when another starts does not overlap, so back-to-back sessions
// never conflict.
func (s Slot) Overlaps(o Slot) bool {
	return s.Start.Before(o.End) && s.End.After(o.Start)
}

// FindConflict returns the first non-cancelled reservation whose interval
// overlaps the candidate slot, or nil. Cancelled reservations are transparent.
func FindConflict(candidate Slot, existing []*models.Reservation) *models.Reservation {
	for _, r := range existing {
		if !r.Active() {
			continue
		}
		if candidate.Overlaps(Slot{Start: r.Start, End: r.End}) {
			return r
		}
	}
	return nil
}

// HasConflict reports whether the candidate overlaps any non-cancelled
// reservation in existing.
func HasConflict(candidate Slot, existing []*models.Reservation) bool {
	return FindConflict(candidate, existing) != nil
}

// FindSelfConflict checks generated slots of one request against each other.
// Weekly occurrences are seven days apart and cannot collide for any legal
// duration, but the check is cheap and guards against future recurrence kinds.
func FindSelfConflict(slots []Slot) (int, int, bool) {
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if slots[i].Overlaps(slots[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

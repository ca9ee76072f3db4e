package booking

// hasConflict reports whether the candidate interval overlaps any active
// booking in the snapshot. The snapshot is assumed to already be scoped to a
// single (court, date); excludeID skips a booking being re-validated against
// itself during an update. Candidate order does not matter, the predicate is
// commutative.
func hasConflict(existing []*Booking, start, end, excludeID string) bool {
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if b.Status != StatusActive {
			continue
		}
		if Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

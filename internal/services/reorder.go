package services

import (
	"visit-route-service/internal/domain"
)

// ReorderDays moves the day at fromIndex to toIndex using list splice
// semantics: every day strictly between the two positions shifts by one
// slot, and each day's DayIndex is re-stamped to its new position.
//
// Segment contents and each day's internal stop order are untouched; the
// operation changes visiting priority, not stop order, so no travel times
// need recomputing. The input route is left unmodified; a new Route value is
// returned together with one shift record per displaced day.
func ReorderDays(route *domain.Route, fromIndex, toIndex int) (*domain.Route, []domain.DayShift, error) {
	n := len(route.Days)
	if fromIndex < 0 || fromIndex >= n {
		return nil, nil, &domain.InvalidIndexError{Index: fromIndex, Len: n}
	}
	if toIndex < 0 || toIndex >= n {
		return nil, nil, &domain.InvalidIndexError{Index: toIndex, Len: n}
	}

	// Copy Day values so re-stamping cannot mutate the caller's route.
	days := make([]*domain.Day, 0, n)
	for _, d := range route.Days {
		copied := *d
		days = append(days, &copied)
	}

	if fromIndex != toIndex {
		moved := days[fromIndex]
		days = append(days[:fromIndex], days[fromIndex+1:]...)

		rest := append([]*domain.Day{moved}, days[toIndex:]...)
		days = append(days[:toIndex], rest...)
	}

	for i, d := range days {
		d.DayIndex = i
	}

	updated := &domain.Route{
		ID:    route.ID,
		Start: route.Start,
		Days:  days,
	}

	return updated, shiftRecords(fromIndex, toIndex), nil
}

// shiftRecords describes, in old-index order, where every displaced day
// ended up. A no-op move yields zero records.
func shiftRecords(fromIndex, toIndex int) []domain.DayShift {
	if fromIndex == toIndex {
		return []domain.DayShift{}
	}

	lo, hi := fromIndex, toIndex
	if lo > hi {
		lo, hi = hi, lo
	}

	shifts := make([]domain.DayShift, 0, hi-lo+1)
	for old := lo; old <= hi; old++ {
		switch {
		case old == fromIndex:
			shifts = append(shifts, domain.DayShift{From: old, To: toIndex})
		case fromIndex < toIndex:
			// Days after the vacated slot slide one position earlier.
			shifts = append(shifts, domain.DayShift{From: old, To: old - 1})
		default:
			// Days ahead of the insertion point slide one position later.
			shifts = append(shifts, domain.DayShift{From: old, To: old + 1})
		}
	}

	return shifts
}

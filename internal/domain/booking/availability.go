package booking

import (
	"guesthub/internal/domain/rooms"
)

// FindAvailableRooms filters candidates down to rooms that can host the stay.
//
// A room is excluded when its capacity is below the party size, or when any
// existing booking referencing it still blocks availability (pending or
// confirmed) and its date range overlaps the stay under the half-open rule.
// A booking checking out on the stay's check-in day does not conflict: the
// turnover day is free for the next guest.
//
// The function is pure: input order is preserved and nothing is mutated.
// Fetching a fresh booking list is the caller's job.
func FindAvailableRooms(candidates []*rooms.Room, existing []*Booking, stay Stay) ([]*rooms.Room, error) {
	if stay.PartySize < 1 {
		return nil, ErrInvalidStay
	}
	if err := stay.Range.Validate(); err != nil {
		return nil, ErrInvalidStay
	}

	blocked := make(map[rooms.RoomID]bool)
	for _, b := range existing {
		if b == nil || !b.Status.Blocks() {
			continue
		}
		if b.Stay.Range.Overlaps(stay.Range) {
			blocked[b.RoomID] = true
		}
	}

	available := make([]*rooms.Room, 0, len(candidates))
	for _, r := range candidates {
		if r == nil || !r.FitsParty(stay.PartySize) {
			continue
		}
		if blocked[r.ID] {
			continue
		}
		available = append(available, r)
	}
	return available, nil
}

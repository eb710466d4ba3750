package rooms

import (
	"context"
	"errors"

	"guesthub/internal/domain/shared/money"
)

var ErrRoomNotFound = errors.New("rooms: not found")

type RoomID string

// RoomType is the stable category identifier used for rate-plan mapping and
// asset selection. Free-text name matching is deliberately not supported.
type RoomType string

const (
	TypeStandard RoomType = "standard"
	TypeDouble   RoomType = "double"
	TypeSuite    RoomType = "suite"
)

// Room describes a bookable hotel room.
type Room struct {
	ID          RoomID
	Name        string
	Type        RoomType
	Description string
	NightlyRate money.Money
	Capacity    int
	ImageURLs   []string
	Amenities   []string
}

// FitsParty reports whether the room can host the given party size.
func (r Room) FitsParty(size int) bool {
	return r.Capacity >= size
}

type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
}

// Package memory holds in-memory implementations of every persistence port.
// They back tests and the local dev profile; the mongo and scylla packages
// are the production counterparts.
package memory

import (
	"context"
	"sort"
	"sync"

	domainbooking "guesthub/internal/domain/booking"
	domainpayment "guesthub/internal/domain/payment"
	domainrooms "guesthub/internal/domain/rooms"
	domainservices "guesthub/internal/domain/services"
	"guesthub/internal/domain/shared/events"
)

// RoomRepository is a read-mostly catalog of rooms.
type RoomRepository struct {
	mu    sync.RWMutex
	items map[domainrooms.RoomID]*domainrooms.Room
	order []domainrooms.RoomID
}

func NewRoomRepository(seed ...*domainrooms.Room) *RoomRepository {
	r := &RoomRepository{items: make(map[domainrooms.RoomID]*domainrooms.Room)}
	for _, room := range seed {
		r.Put(room)
	}
	return r
}

func (r *RoomRepository) Put(room *domainrooms.Room) {
	if room == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[room.ID]; !ok {
		r.order = append(r.order, room.ID)
	}
	r.items[room.ID] = cloneRoom(room)
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, domainrooms.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

// List preserves insertion order so search results are stable.
func (r *RoomRepository) List(ctx context.Context) ([]*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainrooms.Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneRoom(r.items[id]))
	}
	return out, nil
}

func cloneRoom(room *domainrooms.Room) *domainrooms.Room {
	if room == nil {
		return nil
	}
	copyRoom := *room
	copyRoom.ImageURLs = append([]string(nil), room.ImageURLs...)
	copyRoom.Amenities = append([]string(nil), room.Amenities...)
	return &copyRoom
}

// BookingRepository stores bookings in memory.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	if b == nil {
		return domainbooking.ErrBookingNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneBooking(b)
	stored.Version++
	r.items[b.ID] = stored
	b.Version = stored.Version
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.GuestID == guestID {
			out = append(out, cloneBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *BookingRepository) ListBlocking(ctx context.Context, roomID domainrooms.RoomID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.RoomID == roomID && b.Status.Blocks() {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	copyBooking := *b
	copyBooking.EventRecorder = events.EventRecorder{}
	return &copyBooking
}

// ServiceRepository is the ancillary-services catalog.
type ServiceRepository struct {
	mu    sync.RWMutex
	items map[domainservices.ServiceID]*domainservices.Service
	order []domainservices.ServiceID
}

func NewServiceRepository(seed ...*domainservices.Service) *ServiceRepository {
	r := &ServiceRepository{items: make(map[domainservices.ServiceID]*domainservices.Service)}
	for _, svc := range seed {
		r.Put(svc)
	}
	return r
}

func (r *ServiceRepository) Put(svc *domainservices.Service) {
	if svc == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[svc.ID]; !ok {
		r.order = append(r.order, svc.ID)
	}
	copySvc := *svc
	r.items[svc.ID] = &copySvc
}

func (r *ServiceRepository) ByID(ctx context.Context, id domainservices.ServiceID) (*domainservices.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.items[id]
	if !ok {
		return nil, domainservices.ErrServiceNotFound
	}
	copySvc := *svc
	return &copySvc, nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]*domainservices.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainservices.Service, 0, len(r.order))
	for _, id := range r.order {
		copySvc := *r.items[id]
		out = append(out, &copySvc)
	}
	return out, nil
}

// IntentRepository stores payment intents keyed by provider order id.
type IntentRepository struct {
	mu    sync.RWMutex
	items map[string]*domainpayment.Intent
}

func NewIntentRepository() *IntentRepository {
	return &IntentRepository{items: make(map[string]*domainpayment.Intent)}
}

func (r *IntentRepository) ByOrderID(ctx context.Context, orderID string) (*domainpayment.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	intent, ok := r.items[orderID]
	if !ok {
		return nil, domainpayment.ErrIntentNotFound
	}
	copyIntent := *intent
	return &copyIntent, nil
}

func (r *IntentRepository) Save(ctx context.Context, intent *domainpayment.Intent) error {
	if intent == nil {
		return domainpayment.ErrIntentNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	copyIntent := *intent
	r.items[intent.OrderID] = &copyIntent
	return nil
}

func (r *IntentRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domainpayment.Intent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainpayment.Intent, 0)
	for _, intent := range r.items {
		if intent.BookingID == bookingID {
			copyIntent := *intent
			out = append(out, &copyIntent)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

var (
	_ domainrooms.Repository         = (*RoomRepository)(nil)
	_ domainbooking.Repository       = (*BookingRepository)(nil)
	_ domainservices.Repository      = (*ServiceRepository)(nil)
	_ domainpayment.IntentRepository = (*IntentRepository)(nil)
)

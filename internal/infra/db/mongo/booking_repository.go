package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "guesthub/internal/domain/booking"
	domainpricing "guesthub/internal/domain/pricing"
	domainrooms "guesthub/internal/domain/rooms"
	domainrange "guesthub/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "guest_id", Value: 1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}}})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save uses the aggregate version as an optimistic lock; a stale write
// surfaces as ErrConcurrentUpdate instead of silently clobbering.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByGuest(ctx context.Context, guestID string) ([]*domainbooking.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cur)
}

func (r *BookingRepository) ListBlocking(ctx context.Context, roomID domainrooms.RoomID) ([]*domainbooking.Booking, error) {
	filter := bson.M{
		"room_id": string(roomID),
		"status":  bson.M{"$in": []string{string(domainbooking.StatusPending), string(domainbooking.StatusConfirmed)}},
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeBookings(ctx, cur)
}

func decodeBookings(ctx context.Context, cur *mongo.Cursor) ([]*domainbooking.Booking, error) {
	defer cur.Close(ctx)
	out := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID            string                       `bson:"_id"`
	GuestID       string                       `bson:"guest_id"`
	RoomID        string                       `bson:"room_id"`
	Stay          stayDocument                 `bson:"stay"`
	Price         domainpricing.PriceBreakdown `bson:"price"`
	Status        string                       `bson:"status"`
	PaymentStatus string                       `bson:"payment_status"`
	ChannexID     string                       `bson:"channex_id"`
	Source        string                       `bson:"source"`
	CreatedAt     int64                        `bson:"created_at"`
	UpdatedAt     int64                        `bson:"updated_at"`
	Version       int64                        `bson:"version"`
}

type stayDocument struct {
	CheckIn   int64 `bson:"check_in"`
	CheckOut  int64 `bson:"check_out"`
	PartySize int   `bson:"party_size"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:      string(b.ID),
		GuestID: b.GuestID,
		RoomID:  string(b.RoomID),
		Stay: stayDocument{
			CheckIn:   b.Stay.Range.CheckIn.UnixMilli(),
			CheckOut:  b.Stay.Range.CheckOut.UnixMilli(),
			PartySize: b.Stay.PartySize,
		},
		Price:         b.Price,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		ChannexID:     b.ChannexID,
		Source:        b.Source,
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
		Version:       b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:      domainbooking.BookingID(d.ID),
		GuestID: d.GuestID,
		RoomID:  domainrooms.RoomID(d.RoomID),
		Stay: domainbooking.Stay{
			Range: domainrange.DateRange{
				CheckIn:  timestampToTime(d.Stay.CheckIn),
				CheckOut: timestampToTime(d.Stay.CheckOut),
			},
			PartySize: d.Stay.PartySize,
		},
		Price:         d.Price,
		Status:        domainbooking.Status(d.Status),
		PaymentStatus: domainbooking.PaymentStatus(d.PaymentStatus),
		ChannexID:     d.ChannexID,
		Source:        d.Source,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Version:       d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

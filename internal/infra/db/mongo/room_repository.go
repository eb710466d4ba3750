package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrooms "guesthub/internal/domain/rooms"
	"guesthub/internal/domain/shared/money"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("rooms")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrooms.ErrRoomNotFound
		}
		return nil, err
	}
	return doc.toRoom(), nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainrooms.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainrooms.Room, 0)
	for cur.Next(ctx) {
		var doc roomDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRoom())
	}
	return out, cur.Err()
}

// Upsert seeds and updates catalog entries; the guest app itself never
// writes rooms.
func (r *RoomRepository) Upsert(ctx context.Context, room *domainrooms.Room) error {
	doc := newRoomDocument(room)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type roomDocument struct {
	ID          string   `bson:"_id"`
	Name        string   `bson:"name"`
	Type        string   `bson:"type"`
	Description string   `bson:"description"`
	RateAmount  int64    `bson:"rate_amount"`
	Currency    string   `bson:"currency"`
	Capacity    int      `bson:"capacity"`
	ImageURLs   []string `bson:"image_urls"`
	Amenities   []string `bson:"amenities"`
	SortOrder   int      `bson:"sort_order"`
}

func newRoomDocument(room *domainrooms.Room) roomDocument {
	return roomDocument{
		ID:          string(room.ID),
		Name:        room.Name,
		Type:        string(room.Type),
		Description: room.Description,
		RateAmount:  room.NightlyRate.Amount,
		Currency:    room.NightlyRate.Currency,
		Capacity:    room.Capacity,
		ImageURLs:   room.ImageURLs,
		Amenities:   room.Amenities,
	}
}

func (d roomDocument) toRoom() *domainrooms.Room {
	return &domainrooms.Room{
		ID:          domainrooms.RoomID(d.ID),
		Name:        d.Name,
		Type:        domainrooms.RoomType(d.Type),
		Description: d.Description,
		NightlyRate: money.Money{Amount: d.RateAmount, Currency: d.Currency},
		Capacity:    d.Capacity,
		ImageURLs:   d.ImageURLs,
		Amenities:   d.Amenities,
	}
}

package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincomplaint "guesthub/internal/domain/complaint"
)

type ComplaintRepository struct {
	col *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	col := db.Collection("complaints")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "guest_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return &ComplaintRepository{col: col}
}

func (r *ComplaintRepository) ByID(ctx context.Context, id domaincomplaint.ID) (*domaincomplaint.Complaint, error) {
	var doc complaintDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincomplaint.ErrNotFound
		}
		return nil, err
	}
	return doc.toComplaint(), nil
}

func (r *ComplaintRepository) Save(ctx context.Context, c *domaincomplaint.Complaint) error {
	doc := newComplaintDocument(c)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *ComplaintRepository) ListByGuest(ctx context.Context, guestID string) ([]*domaincomplaint.Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"guest_id": guestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domaincomplaint.Complaint
	for cur.Next(ctx) {
		var doc complaintDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toComplaint())
	}
	return out, cur.Err()
}

type complaintDocument struct {
	ID          string `bson:"_id"`
	GuestID     string `bson:"guest_id"`
	BookingID   string `bson:"booking_id"`
	Title       string `bson:"title"`
	Description string `bson:"description"`
	Status      string `bson:"status"`
	CreatedAt   int64  `bson:"created_at"`
	UpdatedAt   int64  `bson:"updated_at"`
}

func newComplaintDocument(c *domaincomplaint.Complaint) complaintDocument {
	return complaintDocument{
		ID:          string(c.ID),
		GuestID:     c.GuestID,
		BookingID:   c.BookingID,
		Title:       c.Title,
		Description: c.Description,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.UnixMilli(),
		UpdatedAt:   c.UpdatedAt.UnixMilli(),
	}
}

func (d complaintDocument) toComplaint() *domaincomplaint.Complaint {
	return &domaincomplaint.Complaint{
		ID:          domaincomplaint.ID(d.ID),
		GuestID:     d.GuestID,
		BookingID:   d.BookingID,
		Title:       d.Title,
		Description: d.Description,
		Status:      domaincomplaint.Status(d.Status),
		CreatedAt:   timestampToTime(d.CreatedAt),
		UpdatedAt:   timestampToTime(d.UpdatedAt),
	}
}

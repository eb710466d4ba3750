package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainguest "guesthub/internal/domain/guest"
)

type GuestRepository struct {
	col *mongo.Collection
}

func NewGuestRepository(db *mongo.Database) *GuestRepository {
	col := db.Collection("guests")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &GuestRepository{col: col}
}

func (r *GuestRepository) ByID(ctx context.Context, id domainguest.ID) (*domainguest.Guest, error) {
	var doc guestDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainguest.ErrNotFound
		}
		return nil, err
	}
	return doc.toGuest(), nil
}

func (r *GuestRepository) ByEmail(ctx context.Context, email string) (*domainguest.Guest, error) {
	var doc guestDocument
	if err := r.col.FindOne(ctx, bson.M{"email": domainguest.NormalizeEmail(email)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainguest.ErrNotFound
		}
		return nil, err
	}
	return doc.toGuest(), nil
}

func (r *GuestRepository) Save(ctx context.Context, g *domainguest.Guest) error {
	doc := newGuestDocument(g)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		return domainguest.ErrEmailAlreadyUsed
	}
	return err
}

type guestDocument struct {
	ID           string `bson:"_id"`
	Email        string `bson:"email"`
	FullName     string `bson:"full_name"`
	Phone        string `bson:"phone"`
	Address      string `bson:"address"`
	City         string `bson:"city"`
	Country      string `bson:"country"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func newGuestDocument(g *domainguest.Guest) guestDocument {
	return guestDocument{
		ID:           string(g.ID),
		Email:        g.Email,
		FullName:     g.FullName,
		Phone:        g.Phone,
		Address:      g.Address,
		City:         g.City,
		Country:      g.Country,
		PasswordHash: g.PasswordHash,
		CreatedAt:    g.CreatedAt.UnixMilli(),
		UpdatedAt:    time.Now().UnixMilli(),
	}
}

func (d guestDocument) toGuest() *domainguest.Guest {
	return &domainguest.Guest{
		ID:           domainguest.ID(d.ID),
		Email:        d.Email,
		FullName:     d.FullName,
		Phone:        d.Phone,
		Address:      d.Address,
		City:         d.City,
		Country:      d.Country,
		PasswordHash: d.PasswordHash,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}

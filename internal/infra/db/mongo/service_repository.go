package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainservices "guesthub/internal/domain/services"
	"guesthub/internal/domain/shared/money"
)

// ServiceRepository holds the ancillary-services catalog.
type ServiceRepository struct {
	col *mongo.Collection
}

func NewServiceRepository(db *mongo.Database) *ServiceRepository {
	return &ServiceRepository{col: db.Collection("services")}
}

func (r *ServiceRepository) ByID(ctx context.Context, id domainservices.ServiceID) (*domainservices.Service, error) {
	var doc serviceDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainservices.ErrServiceNotFound
		}
		return nil, err
	}
	return doc.toService(), nil
}

func (r *ServiceRepository) List(ctx context.Context) ([]*domainservices.Service, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainservices.Service, 0)
	for cur.Next(ctx) {
		var doc serviceDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toService())
	}
	return out, cur.Err()
}

func (r *ServiceRepository) Upsert(ctx context.Context, svc *domainservices.Service) error {
	doc := serviceDocument{
		ID:          string(svc.ID),
		Name:        svc.Name,
		Description: svc.Description,
		Amount:      svc.Price.Amount,
		Currency:    svc.Price.Currency,
		Category:    svc.Category,
		ImageURL:    svc.ImageURL,
	}
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type serviceDocument struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Amount      int64  `bson:"amount"`
	Currency    string `bson:"currency"`
	Category    string `bson:"category"`
	ImageURL    string `bson:"image_url"`
}

func (d serviceDocument) toService() *domainservices.Service {
	return &domainservices.Service{
		ID:          domainservices.ServiceID(d.ID),
		Name:        d.Name,
		Description: d.Description,
		Price:       money.Money{Amount: d.Amount, Currency: d.Currency},
		Category:    d.Category,
		ImageURL:    d.ImageURL,
	}
}

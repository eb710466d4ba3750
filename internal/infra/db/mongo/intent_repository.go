package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpayment "guesthub/internal/domain/payment"
	"guesthub/internal/domain/shared/money"
)

type IntentRepository struct {
	col *mongo.Collection
}

func NewIntentRepository(db *mongo.Database) *IntentRepository {
	col := db.Collection("payment_intents")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "booking_id", Value: 1}}})
	return &IntentRepository{col: col}
}

func (r *IntentRepository) ByOrderID(ctx context.Context, orderID string) (*domainpayment.Intent, error) {
	var doc intentDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": orderID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpayment.ErrIntentNotFound
		}
		return nil, err
	}
	return doc.toIntent(), nil
}

func (r *IntentRepository) Save(ctx context.Context, intent *domainpayment.Intent) error {
	doc := newIntentDocument(intent)
	_, err := r.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

func (r *IntentRepository) ListByBooking(ctx context.Context, bookingID string) ([]*domainpayment.Intent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*domainpayment.Intent, 0)
	for cur.Next(ctx) {
		var doc intentDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toIntent())
	}
	return out, cur.Err()
}

type intentDocument struct {
	ID        string `bson:"_id"`
	BookingID string `bson:"booking_id"`
	Amount    int64  `bson:"amount"`
	Currency  string `bson:"currency"`
	Provider  string `bson:"provider"`
	Status    string `bson:"status"`
	PaymentID string `bson:"payment_id"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newIntentDocument(intent *domainpayment.Intent) intentDocument {
	return intentDocument{
		ID:        intent.OrderID,
		BookingID: intent.BookingID,
		Amount:    intent.Amount.Amount,
		Currency:  intent.Amount.Currency,
		Provider:  intent.Provider,
		Status:    string(intent.Status),
		PaymentID: intent.PaymentID,
		CreatedAt: intent.CreatedAt.UnixMilli(),
		UpdatedAt: intent.UpdatedAt.UnixMilli(),
	}
}

func (d intentDocument) toIntent() *domainpayment.Intent {
	return &domainpayment.Intent{
		OrderID:   d.ID,
		BookingID: d.BookingID,
		Amount:    money.Money{Amount: d.Amount, Currency: d.Currency},
		Provider:  d.Provider,
		Status:    domainpayment.IntentStatus(d.Status),
		PaymentID: d.PaymentID,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

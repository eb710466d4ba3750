package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PushTokenStore maps users to Expo device tokens. Staff accounts are
// flagged so guest messages can fan out to the whole team.
type PushTokenStore struct {
	col *mongo.Collection
}

func NewPushTokenStore(db *mongo.Database) *PushTokenStore {
	col := db.Collection("push_tokens")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &PushTokenStore{col: col}
}

func (s *PushTokenStore) Save(ctx context.Context, userID, token string) error {
	doc := bson.M{"user_id": userID, "token": token, "updated_at": time.Now().UTC()}
	opts := options.Update().SetUpsert(true)
	_, err := s.col.UpdateOne(ctx, bson.M{"user_id": userID, "token": token}, bson.M{"$set": doc}, opts)
	return err
}

func (s *PushTokenStore) MarkStaff(ctx context.Context, userID string) error {
	_, err := s.col.UpdateMany(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{"staff": true}})
	return err
}

func (s *PushTokenStore) TokensFor(ctx context.Context, userID string) ([]string, error) {
	return s.tokens(ctx, bson.M{"user_id": userID})
}

func (s *PushTokenStore) StaffTokens(ctx context.Context) ([]string, error) {
	return s.tokens(ctx, bson.M{"staff": true})
}

func (s *PushTokenStore) tokens(ctx context.Context, filter bson.M) ([]string, error) {
	cur, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]string, 0)
	for cur.Next(ctx) {
		var doc struct {
			Token string `bson:"token"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.Token)
	}
	return out, cur.Err()
}

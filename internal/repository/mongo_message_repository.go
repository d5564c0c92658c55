package repository

import (
	"context"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoMessageRepository struct {
	collection *mongo.Collection
}

func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection("messages"),
	}
}

func (m *mongoMessageRepository) Append(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	message.ID = ""
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}

	res, err := m.collection.InsertOne(ctx, message)
	if err != nil {
		return nil, domain.NewPersistenceError("insert message", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		message.ID = oid.Hex()
	}
	return message, nil
}

func (m *mongoMessageRepository) ListAll(ctx context.Context) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, domain.NewPersistenceError("list messages", err)
	}

	messages := make([]*domain.Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, domain.NewPersistenceError("decode messages", err)
	}
	return messages, nil
}

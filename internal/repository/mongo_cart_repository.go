package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// addProductAttempts bounds the inc/push loop when a concurrent writer adds the same line in between.
const addProductAttempts = 3

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartRepository) Create(ctx context.Context) (*domain.Cart, error) {
	cart := &domain.Cart{Products: []domain.CartItem{}}

	res, err := m.collection.InsertOne(ctx, cart)
	if err != nil {
		return nil, domain.NewPersistenceError("create cart", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cart.ID = oid.Hex()
	}
	return cart, nil
}

func (m *mongoCartRepository) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	var cart domain.Cart
	err = m.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCartNotFound
		}
		return nil, domain.NewPersistenceError("get cart", err)
	}

	if cart.Products == nil {
		cart.Products = []domain.CartItem{}
	}
	return &cart, nil
}

// AddProduct increments an existing line in place, or pushes a new one guarded by $ne so that
// two concurrent adds of a new product never produce two lines.
func (m *mongoCartRepository) AddProduct(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	oid, err := primitive.ObjectIDFromHex(cartID)
	if err != nil {
		return nil, domain.ErrCartNotFound
	}

	for range addProductAttempts {
		inc, err := m.collection.UpdateOne(ctx,
			bson.M{"_id": oid, "products.product_id": productID},
			bson.M{"$inc": bson.M{"products.$.quantity": 1}},
		)
		if err != nil {
			return nil, domain.NewPersistenceError("increment cart item", err)
		}
		if inc.MatchedCount > 0 {
			return m.GetByID(ctx, cartID)
		}

		push, err := m.collection.UpdateOne(ctx,
			bson.M{"_id": oid, "products.product_id": bson.M{"$ne": productID}},
			bson.M{"$push": bson.M{"products": domain.CartItem{ProductID: productID, Quantity: 1}}},
		)
		if err != nil {
			return nil, domain.NewPersistenceError("add cart item", err)
		}
		if push.MatchedCount > 0 {
			return m.GetByID(ctx, cartID)
		}

		count, err := m.collection.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return nil, domain.NewPersistenceError("get cart", err)
		}
		if count == 0 {
			return nil, domain.ErrCartNotFound
		}
	}

	return nil, domain.NewPersistenceError("add cart item", errors.New("concurrent update conflict"))
}

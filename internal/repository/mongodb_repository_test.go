package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestDB(t *testing.T) (*mongo.Database, func()) {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	// Start MongoDB container
	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	// Get connection string
	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	// Connect to MongoDB
	db, err := ConnectMongoDB(ctx, testMongoConfig(uri))
	require.NoError(t, err)

	// Create indexes
	require.NoError(t, RunMigrations(uri, "testdb"))

	cleanup := func() {
		_ = db.Client().Disconnect(ctx)
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return db, cleanup
}

func testMongoConfig(uri string) MongoConfig {
	return MongoConfig{
		URI:                    uri,
		Database:               "testdb",
		MaxPoolSize:            10,
		MinPoolSize:            1,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
	}
}

func newMongoProduct(code string) *domain.Product {
	return &domain.Product{
		Title:       "A",
		Description: "d",
		Code:        code,
		Price:       10,
		Status:      true,
		Stock:       5,
		Category:    "c",
	}
}

func TestMongoProduct_CreateThenGet(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoProductRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newMongoProduct("X1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)

	byCode, err := repo.GetByCode(ctx, "X1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)
}

func TestMongoProduct_UniqueCodeIndex(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoProductRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newMongoProduct("X1"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newMongoProduct("X1"))
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	assert.ErrorIs(t, repo.CheckDuplicate(ctx, "X1", "any title"), domain.ErrDuplicateCode)
	assert.NoError(t, repo.CheckDuplicate(ctx, "X2", "A"))
}

func TestMongoProduct_GetByID_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoProductRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "65a000000000000000000000")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = repo.GetByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestMongoProduct_UpdateAndDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoProductRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newMongoProduct("X1"))
	require.NoError(t, err)

	title := "renamed"
	updated, err := repo.Update(ctx, created.ID, domain.ProductPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, "X1", updated.Code)

	unchanged, err := repo.Update(ctx, created.ID, domain.ProductPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, unchanged)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.Update(ctx, created.ID, domain.ProductPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMongoProduct_List(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoProductRepository(db)
	ctx := context.Background()

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = repo.Create(ctx, newMongoProduct("X1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newMongoProduct("X2"))
	require.NoError(t, err)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "X1", products[0].Code)
}

func TestMongoCart_AddProductTwice(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoCartRepository(db)
	ctx := context.Background()

	cart, err := repo.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cart.ID)

	_, err = repo.AddProduct(ctx, cart.ID, "p1")
	require.NoError(t, err)
	updated, err := repo.AddProduct(ctx, cart.ID, "p1")
	require.NoError(t, err)

	assert.Equal(t, []domain.CartItem{{ProductID: "p1", Quantity: 2}}, updated.Products)
}

func TestMongoCart_ConcurrentAddsKeepOneLine(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoCartRepository(db)
	ctx := context.Background()

	cart, err := repo.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.AddProduct(ctx, cart.ID, "p1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, stored.Products, 1)
	assert.Equal(t, 10, stored.Products[0].Quantity)
}

func TestMongoCart_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoCartRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "65a000000000000000000000")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	_, err = repo.AddProduct(ctx, "65a000000000000000000000", "p1")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestMongoMessages_AppendAndList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoMessageRepository(db)
	ctx := context.Background()

	stored, err := repo.Append(ctx, &domain.Message{User: "a@b.c", Message: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	_, err = repo.Append(ctx, &domain.Message{User: "a@b.c", Message: "again"})
	require.NoError(t, err)

	messages, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Message)
}

func TestContextCancellation(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewMongoProductRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
	defer cancel()

	time.Sleep(10 * time.Millisecond) // Ensure context is cancelled

	_, err := repo.List(ctx)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Contains(t, err.Error(), "context")
}

func TestMigrationDSN(t *testing.T) {
	dsn, err := migrationDSN("mongodb://localhost:27017", "ecommerce")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017/ecommerce", dsn)

	dsn, err = migrationDSN("mongodb://user:pw@localhost:27017/?authSource=admin", "shop")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://user:pw@localhost:27017/shop?authSource=admin", dsn)
}

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectMongoDB_UnreachableServer(t *testing.T) {
	cfg := MongoConfig{
		URI:                    "mongodb://127.0.0.1:1/?directConnection=true",
		Database:               "storefront",
		MaxPoolSize:            2,
		ConnectTimeout:         200 * time.Millisecond,
		ServerSelectionTimeout: 200 * time.Millisecond,
	}

	start := time.Now()
	db, err := ConnectMongoDB(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping MongoDB")
	assert.Less(t, time.Since(start), 5*time.Second, "server selection timeout should bound the ping")
}

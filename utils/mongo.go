package utils

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/styleit-app/styleit-backend/config"
)

var Client *mongo.Client

// ConnectMongo initializes the MongoDB connection and verifies it with a ping.
func ConnectMongo(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	Client = client
	Log.Info("connected to MongoDB", zap.String("database", config.DatabaseName))
	return nil
}

// GetCollection returns a handle to a collection in the application database.
func GetCollection(collectionName string) *mongo.Collection {
	if Client == nil {
		Log.Fatal("MongoDB client is not initialized")
	}
	return Client.Database(config.DatabaseName).Collection(collectionName)
}

// DisconnectMongo closes the client on shutdown.
func DisconnectMongo(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}

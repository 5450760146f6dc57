package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/todo/internal/shared/config"
)

// NewMongoClient connects to MongoDB and verifies the connection with a ping.
// The client is disconnected when the application stops.
func NewMongoClient(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) (*mongo.Client, error) {
	logger = logger.With().Str("component", "mongo").Logger()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.Mongo.ConnectionURI()).
		SetConnectTimeout(cfg.Mongo.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to MongoDB")
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Error().Err(err).Msg("Failed to ping MongoDB")
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Disconnecting from MongoDB")
			return client.Disconnect(ctx)
		},
	})

	logger.Info().Str("database", cfg.Mongo.Database).Msg("Connected to MongoDB")
	return client, nil
}

func NewMongoDatabase(client *mongo.Client, cfg *config.Config) *mongo.Database {
	return client.Database(cfg.Mongo.Database)
}

// MongoPinger adapts a client to the health check.
type MongoPinger struct {
	client *mongo.Client
}

func NewMongoPinger(client *mongo.Client) *MongoPinger {
	return &MongoPinger{client: client}
}

func (p *MongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// MemoryPinger always reports healthy.
type MemoryPinger struct{}

func (MemoryPinger) Ping(context.Context) error { return nil }

// Package mongodb connects to the events document database.
package mongodb

import (
	"context"
	"fmt"
	"os"

	"github.com/huangsam/devevent/internal/dbconn"
	"github.com/huangsam/devevent/schema"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// URIEnv is the environment variable holding the MongoDB connection string.
const URIEnv = "MONGODB_URI"

// sharedKey anchors the MongoDB cache in the process-wide registry.
const sharedKey = "mongodb"

// EnvURI reads the connection string from the environment.
func EnvURI() string {
	return os.Getenv(URIEnv)
}

// Dial opens a client for uri. With command buffering disabled the primary
// must answer a ping before the client is handed out.
func Dial(ctx context.Context, uri string, opts dbconn.ConnectOptions) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.ConnectTimeout)
	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if opts.BufferCommands {
		return client, nil
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// disconnect is the dbconn.Closer for MongoDB clients.
func disconnect(ctx context.Context, client *mongo.Client) error {
	return client.Disconnect(ctx)
}

// NewCache creates a standalone MongoDB connection cache.
func NewCache(resolve dbconn.URIResolver, opts dbconn.ConnectOptions) *dbconn.Cache[*mongo.Client] {
	return dbconn.New(dbconn.Config[*mongo.Client]{
		Backend: string(schema.MongoDBBackend),
		URIKey:  URIEnv,
		Resolve: resolve,
		Dial:    Dial,
		Close:   disconnect,
		Options: opts,
	})
}

// Configure returns the process-wide MongoDB cache. The resolver and options
// only take effect if this is the first lookup in the process.
func Configure(resolve dbconn.URIResolver, opts dbconn.ConnectOptions) *dbconn.Cache[*mongo.Client] {
	return dbconn.Shared(sharedKey, func() *dbconn.Cache[*mongo.Client] {
		return NewCache(resolve, opts)
	})
}

// Cache returns the process-wide MongoDB cache, reading MONGODB_URI by default.
func Cache() *dbconn.Cache[*mongo.Client] {
	return Configure(EnvURI, dbconn.DefaultConnectOptions())
}

// Connection returns the shared MongoDB client, connecting on first use.
func Connection(ctx context.Context) (*mongo.Client, error) {
	return Cache().Get(ctx)
}

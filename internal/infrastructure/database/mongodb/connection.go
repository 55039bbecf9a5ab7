// Package mongodb is the document-store implementation of the domain
// repositories.
package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fourwheeler-backend/internal/config"
	"fourwheeler-backend/internal/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection      = "user"
	carsCollection       = "car"
	resetsCollection     = "forgot-password"
	testDrivesCollection = "testdrives"
)

const (
	usernameIndex  = "username_unique"
	emailIndex     = "email_unique"
	makeModelIndex = "make_model_unique"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewDB(ctx context.Context, cfg *config.Config) (*DB, error) {
	timeout := cfg.Database.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.Database.MongoURI).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("error pinging mongodb: %w", err)
	}

	db := &DB{Client: client, Database: client.Database(cfg.Database.MongoDatabase)}
	if err := db.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("Database connection established",
		zap.String("driver", config.DriverMongo),
		zap.String("database", cfg.Database.MongoDatabase),
	)

	return db, nil
}

// EnsureIndexes creates the unique and lookup indexes the repositories rely on.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(usernameIndex)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
		},
		carsCollection: {
			{Keys: bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}}, Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"deleted": false}).
				SetName(makeModelIndex)},
			{Keys: bson.D{{Key: "deleted", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_deleted_created")},
		},
		resetsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "otp", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_email_otp")},
			{Keys: bson.D{{Key: "resetTokenHash", Value: 1}}, Options: options.Index().SetSparse(true).SetName("idx_reset_token_hash")},
		},
		testDrivesCollection: {
			{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("idx_created")},
		},
	}

	for collection, models := range indexes {
		if _, err := d.Database.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
	}
	return nil
}

func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return d.Client.Disconnect(ctx)
}

func (d *DB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Client.Ping(ctx, nil)
}

func (d *DB) collection(name string) *mongo.Collection {
	return d.Database.Collection(name)
}

var notDeleted = bson.M{"$ne": true}

func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func findOptions(sortField string, offset, limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	if offset > 0 {
		opts.SetSkip(int64(offset))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

// isDuplicateOn reports whether err is a duplicate-key error raised by the
// named unique index.
func isDuplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "index: "+index+" ")
}

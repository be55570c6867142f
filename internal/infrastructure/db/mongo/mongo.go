package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// frenchCollation orders strings the way a French reader expects, ignoring
// case and accents.
var frenchCollation = &options.Collation{Locale: "fr", Strength: 1}

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Repositories groups every collection-backed repository of the portal.
type Repositories struct {
	Users       *UserRepository
	Decrees     *DecreeRepository
	Assignments *AssignmentRepository
	Activity    *ActivityRepository
}

func NewRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Decrees:     NewDecreeRepository(db),
		Assignments: NewAssignmentRepository(db),
		Activity:    NewActivityRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	return errors.Join(
		r.Users.EnsureIndexes(ctx),
		r.Decrees.EnsureIndexes(ctx),
		r.Assignments.EnsureIndexes(ctx),
		r.Activity.EnsureIndexes(ctx),
	)
}

// objectID parses a hex id; invalid ids are reported as notFound.
func objectID(id string, notFound error) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return oid, nil
}

// containsRegex matches s anywhere in a field, case-insensitively.
func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

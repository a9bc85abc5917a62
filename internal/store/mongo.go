package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aflpredictions/predictions-api/internal/logic"
)

const (
	defaultDatabase   = "afldata"
	defaultCollection = "predictions"
)

// mongoCollection is the part of *mongo.Collection the store uses
type mongoCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	ReplaceOne(ctx context.Context, filter interface{}, replacement interface{}, opts ...*options.ReplaceOptions) (*mongo.UpdateResult, error)
}

// MongoStore reads predictions from a MongoDB (or Cosmos DB for MongoDB) collection
type MongoStore struct {
	client *mongo.Client
	coll   mongoCollection
}

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, ErrNotConfigured
	}
	if database == "" {
		database = defaultDatabase
	}
	if collection == "" {
		collection = defaultCollection
	}

	// Connect only validates the URI; servers are dialled on first use
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Query(ctx context.Context, p logic.Predicate) ([]json.RawMessage, error) {
	filter, err := mongoFilter(p)
	if err != nil {
		return nil, err
	}

	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []json.RawMessage
	for cursor.Next(ctx) {
		doc, err := bson.MarshalExtJSON(cursor.Current, false, false)
		if err != nil {
			return nil, fmt.Errorf("convert document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, cursor.Err()
}

// Put upserts a document keyed by its id field. Used by the seeder, never by the API.
func (s *MongoStore) Put(ctx context.Context, id string, doc json.RawMessage) error {
	var replacement bson.D
	if err := bson.UnmarshalExtJSON(doc, false, &replacement); err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}
	if _, ok := replacement.Map()["id"]; !ok {
		// upserts do not copy the filter into the inserted document
		replacement = append(bson.D{{Key: "id", Value: id}}, replacement...)
	}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "id", Value: id}}, replacement, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Backend() string { return DriverMongo }

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongoFilter renders p as an AND of field conditions. Numeric equality is
// type-strict the same way the document store is: "17" never equals 17.
func mongoFilter(p logic.Predicate) (bson.D, error) {
	filter := make(bson.D, 0, len(p.Clauses))
	for _, c := range p.Clauses {
		switch c.Op {
		case logic.OpEqual:
			filter = append(filter, bson.E{Key: c.Field, Value: c.Value})
		case logic.OpStartsWith:
			prefix, ok := c.Value.(string)
			if !ok {
				return nil, fmt.Errorf("prefix on %s needs a string", c.Field)
			}
			filter = append(filter, bson.E{Key: c.Field, Value: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(prefix)}})
		default:
			return nil, fmt.Errorf("unsupported operator %s", c.Op)
		}
	}
	return filter, nil
}

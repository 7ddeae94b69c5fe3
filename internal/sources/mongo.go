package sources

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo implements System over a MongoDB database. Collections have no
// declared schema, so Describe samples one document and emits a field
// descriptor per key; Sample renders the document as a description block.
type Mongo struct {
	client   *mongo.Client
	database string
}

// NewMongo creates a MongoDB source from the given configuration. The
// driver connects lazily; an unreachable deployment surfaces as
// ErrSourceUnavailable per call.
func NewMongo(cfg *MongoConfig) (*Mongo, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("create mongo client: %w", err)
	}

	return &Mongo{client: client, database: cfg.Database}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) ListEntities(ctx context.Context) ([]string, error) {
	names, err := m.client.Database(m.database).ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%w: list collections: %w", ErrSourceUnavailable, err)
	}

	sort.Strings(names)
	return names, nil
}

func (m *Mongo) Describe(ctx context.Context, entity string) ([]Descriptor, error) {
	doc, err := m.sampleDocument(ctx, entity)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(doc))
	for name := range doc {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptors := make([]Descriptor, len(names))
	for i, name := range names {
		descriptors[i] = Descriptor{
			Name: name,
			Type: bsonTypeName(doc[name]),
			Kind: KindField,
		}
	}

	return descriptors, nil
}

func (m *Mongo) Sample(ctx context.Context, entity string) (string, error) {
	doc, err := m.sampleDocument(ctx, entity)
	if err != nil {
		if errors.Is(err, ErrEntityNotFound) {
			return "Collection vide", nil
		}
		return "", err
	}

	return fmt.Sprintf("Exemple de document :\n%v", doc), nil
}

func (m *Mongo) sampleDocument(ctx context.Context, entity string) (bson.M, error) {
	var doc bson.M
	err := m.client.Database(m.database).Collection(entity).FindOne(ctx, bson.D{}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entity)
		}
		return nil, fmt.Errorf("%w: sample %s: %w", ErrSourceUnavailable, entity, err)
	}

	// The object id carries no classification signal.
	delete(doc, "_id")
	return doc, nil
}

func bsonTypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case int32, int64:
		return "int"
	case float64:
		return "double"
	case bool:
		return "bool"
	case bson.M, bson.D:
		return "document"
	case bson.A:
		return "array"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

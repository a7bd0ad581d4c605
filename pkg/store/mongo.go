package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/errors"
)

// MongoConfig addresses a boards collection.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DefaultCollection is used when MongoConfig.Collection is empty.
const DefaultCollection = "boards"

// Finder is the part of [*mongo.Collection] the source uses.
type Finder interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// MongoSource reads boards from a MongoDB collection.
type MongoSource struct {
	coll   Finder
	filter any
}

// NewMongoSource returns a source reading every document of coll matching
// filter. A nil filter matches all documents.
func NewMongoSource(coll Finder, filter any) *MongoSource {
	if filter == nil {
		filter = bson.D{}
	}
	return &MongoSource{coll: coll, filter: filter}
}

// ConnectMongo connects to cfg.URI and returns a source for the configured
// collection along with a function that disconnects.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*MongoSource, func(context.Context) error, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri and database are required")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	return NewMongoSource(coll, nil), client.Disconnect, nil
}

// Boards loads and decodes every matching document.
func (s *MongoSource) Boards(ctx context.Context) ([]board.Board, error) {
	cur, err := s.coll.Find(ctx, s.filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "find boards")
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read boards")
	}
	return DecodeBoards(docs)
}

// DecodeBoards converts stored documents into boards. A document without
// an "id" field takes its "_id"; other "_id" values are dropped.
func DecodeBoards(docs []bson.M) ([]board.Board, error) {
	boards := make([]board.Board, 0, len(docs))
	for i, doc := range docs {
		m := plain(doc).(map[string]any)
		if oid, ok := m["_id"]; ok {
			if _, has := m["id"]; !has {
				m["id"] = oid
			}
			delete(m, "_id")
		}

		data, err := json.Marshal(m)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBoard, err, "document %d", i)
		}
		var b board.Board
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidBoard, err, "document %d", i)
		}
		boards = append(boards, b)
	}
	return boards, nil
}

// plain converts BSON containers and scalars to JSON-friendly values.
func plain(v any) any {
	switch x := v.(type) {
	case bson.M:
		return plainMap(x)
	case map[string]any:
		return plainMap(x)
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plain(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plain(e)
		}
		return out
	case []any:
		return plain(bson.A(x))
	case primitive.ObjectID:
		return x.Hex()
	case primitive.DateTime:
		return x.Time().UTC().Format(time.RFC3339Nano)
	case primitive.Binary, primitive.Regex, primitive.JavaScript:
		return fmt.Sprint(x)
	}
	return v
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, e := range m {
		out[k] = plain(e)
	}
	return out
}

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is the MongoDB collection sessions live in.
const DefaultCollection = "sessions"

// MongoStore keeps sessions in a MongoDB collection keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri and uses database.sessions. Close
// disconnects the client.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := NewMongoStoreWithCollection(client.Database(database).Collection(DefaultCollection))
	s.client = client
	s.owned = true
	return s, nil
}

// NewMongoStoreWithCollection wraps an existing collection. Close leaves
// the client connected.
func NewMongoStoreWithCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// EnsureIndexes creates a TTL index on expires_at so MongoDB drops expired
// sessions on its own.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	return err
}

func (s *MongoStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	var sess Session
	err := s.coll.FindOne(ctx, idFilter(sessionID)).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	if sess.IsExpired() {
		return nil, nil
	}
	return &sess, nil
}

func (s *MongoStore) Set(ctx context.Context, sess *Session) error {
	_, err := s.coll.ReplaceOne(ctx, idFilter(sess.ID), sess, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.coll.DeleteOne(ctx, idFilter(sessionID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// List skips the history when reading, since summaries never need it.
func (s *MongoStore) List(ctx context.Context) ([]Info, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "state.history", Value: 0}}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, liveFilter(time.Now()), opts)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer cur.Close(ctx)

	var infos []Info
	for cur.Next(ctx) {
		var sess Session
		if err := cur.Decode(&sess); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		infos = append(infos, sess.Info())
	}
	return infos, cur.Err()
}

func (s *MongoStore) Cleanup(ctx context.Context) (int, error) {
	res, err := s.coll.DeleteMany(ctx, expiredFilter(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func idFilter(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func expiredFilter(now time.Time) bson.D {
	return bson.D{{Key: "expires_at", Value: bson.D{{Key: "$lt", Value: now}}}}
}

func liveFilter(now time.Time) bson.D {
	return bson.D{{Key: "expires_at", Value: bson.D{{Key: "$gte", Value: now}}}}
}

var _ Store = (*MongoStore)(nil)

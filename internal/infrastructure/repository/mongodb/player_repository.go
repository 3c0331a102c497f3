package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dugoutlabs/ballstats/internal/domain/player"
)

// PlayerRepository stores player records in a MongoDB collection keyed by
// the application-level "id" field. No uniqueness index is created for it;
// duplicate ids resolve to the first document in natural order.
type PlayerRepository struct {
	collection *mongo.Collection
}

func NewPlayerRepository(collection *mongo.Collection) *PlayerRepository {
	return &PlayerRepository{collection: collection}
}

// Connect opens a client, verifies the deployment with a ping, and returns
// the client along with the configured collection handle. The caller owns
// the client lifecycle and must Disconnect it on shutdown.
func Connect(ctx context.Context, uri, database, collection string) (*mongo.Client, *mongo.Collection, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(database).Collection(collection), nil
}

func (r *PlayerRepository) List(ctx context.Context, limit int64) ([]player.Player, error) {
	findOpts := options.Find()
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find players: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []playerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}

	out := make([]player.Player, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toPlayer())
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int) (player.Player, bool, error) {
	var doc playerDocument
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return player.Player{}, false, nil
	}
	if err != nil {
		return player.Player{}, false, fmt.Errorf("find player by id: %w", err)
	}

	return doc.toPlayer(), true, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, record player.Player) error {
	if _, err := r.collection.InsertOne(ctx, documentFromPlayer(record)); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}

func (r *PlayerRepository) Replace(ctx context.Context, id int, record player.Player) (int64, error) {
	record.ID = id
	result, err := r.collection.ReplaceOne(ctx, bson.M{"id": id}, documentFromPlayer(record))
	if err != nil {
		return 0, fmt.Errorf("replace player: %w", err)
	}

	return result.ModifiedCount, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int) (int64, error) {
	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return 0, fmt.Errorf("delete player: %w", err)
	}

	return result.DeletedCount, nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}

	return count, nil
}

func (r *PlayerRepository) InsertMany(ctx context.Context, records []player.Player) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	docs := make([]any, 0, len(records))
	for _, record := range records {
		docs = append(docs, documentFromPlayer(record))
	}

	result, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert players: %w", err)
	}

	return len(result.InsertedIDs), nil
}

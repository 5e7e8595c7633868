// internal/store/mongo.go
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
)

// mongoBackend maps each store collection onto a Mongo collection and
// pushes Find filters down to the server.
type mongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and uses database as the document root.
func NewMongoStore(ctx context.Context, uri, database string, timeout time.Duration) (Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return newEngine(&mongoBackend{client: client, db: client.Database(database)}), nil
}

func (b *mongoBackend) name() string { return "mongo" }

var mongoOrder = bson.D{{Key: FieldCreatedAt, Value: 1}, {Key: FieldID, Value: 1}}

func (b *mongoBackend) load(ctx context.Context, collection string) ([]Document, error) {
	return b.find(ctx, collection, nil)
}

func (b *mongoBackend) find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	cur, err := b.db.Collection(collection).Find(ctx, mongoFilter(filter), options.Find().SetSort(mongoOrder))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(raw))
	for _, item := range raw {
		doc, err := normalizeBSON(item)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// normalizeBSON turns driver types (int32, primitive.A, primitive.M, ...)
// into the JSON shapes every other backend returns.
func normalizeBSON(m bson.M) (Document, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *mongoBackend) apply(ctx context.Context, collection string, _ []Document, m mutation) error {
	col := b.db.Collection(collection)
	switch m.kind {
	case mutationInsert:
		items := make([]interface{}, len(m.docs))
		for i, doc := range m.docs {
			items[i] = map[string]interface{}(doc)
		}
		_, err := col.InsertMany(ctx, items)
		return err
	case mutationReplace:
		for _, doc := range m.docs {
			if _, err := col.ReplaceOne(ctx, bson.M{FieldID: doc.ID()}, map[string]interface{}(doc)); err != nil {
				return err
			}
		}
		return nil
	case mutationDelete:
		for _, doc := range m.docs {
			if _, err := col.DeleteOne(ctx, bson.M{FieldID: doc.ID()}); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("unknown mutation %d", m.kind)
}

func (b *mongoBackend) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}

func mongoFilter(f Filter) bson.M {
	if len(f) == 0 {
		return bson.M{}
	}
	clauses := make([]bson.M, 0, len(f))
	for _, p := range f {
		clauses = append(clauses, mongoClause(p))
	}
	if len(clauses) == 1 {
		return clauses[0]
	}
	return bson.M{"$and": clauses}
}

func mongoClause(p Predicate) bson.M {
	if p.Op == OpOr {
		alts := make([]bson.M, 0, len(p.Any))
		for _, alt := range p.Any {
			alts = append(alts, mongoClause(alt))
		}
		return bson.M{"$or": alts}
	}
	return bson.M{p.Field: mongoCondition(p)}
}

func mongoCondition(p Predicate) interface{} {
	switch p.Op {
	case OpEq:
		return bson.M{"$eq": p.Value}
	case OpNe:
		return bson.M{"$ne": p.Value}
	case OpGt:
		return bson.M{"$gt": p.Value}
	case OpGte:
		return bson.M{"$gte": p.Value}
	case OpLt:
		return bson.M{"$lt": p.Value}
	case OpLte:
		return bson.M{"$lte": p.Value}
	case OpIn:
		return bson.M{"$in": toSlice(p.Value)}
	case OpExists:
		return bson.M{"$exists": p.Value}
	case OpRegex:
		opts := ""
		if p.CaseInsensitive {
			opts = "i"
		}
		return primitive.Regex{Pattern: p.Pattern, Options: opts}
	}
	return bson.M{"$eq": p.Value}
}

// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("document not found")

// Store is collection-scoped CRUD plus a small query/aggregate surface.
type Store interface {
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)
	FindOne(ctx context.Context, collection string, filter Filter) (Document, error)
	FindByID(ctx context.Context, collection, id string) (Document, error)
	InsertOne(ctx context.Context, collection string, doc Document) (Document, error)
	InsertMany(ctx context.Context, collection string, docs []Document) ([]Document, error)
	UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (Document, error)
	UpdateByID(ctx context.Context, collection, id string, patch Document) (Document, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (Document, error)
	DeleteByID(ctx context.Context, collection, id string) (Document, error)
	Count(ctx context.Context, collection string, filter Filter) (int, error)
	Aggregate(ctx context.Context, collection string, stages ...Stage) ([]Document, error)
	Close() error
}

type mutationKind int

const (
	mutationInsert mutationKind = iota
	mutationReplace
	mutationDelete
)

type mutation struct {
	kind mutationKind
	docs []Document
}

// backend persists whole collections. apply receives both the full next
// state and the delta so that file backends can rewrite and row backends
// can apply the change.
type backend interface {
	name() string
	load(ctx context.Context, collection string) ([]Document, error)
	apply(ctx context.Context, collection string, next []Document, m mutation) error
	close() error
}

// finder is implemented by backends that can evaluate filters natively.
type finder interface {
	find(ctx context.Context, collection string, filter Filter) ([]Document, error)
}

// engine implements Store over a backend. Every mutation runs its
// read-modify-write cycle under the collection's mutex.
type engine struct {
	backend backend
	now     func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEngine(b backend) *engine {
	return &engine{
		backend: b,
		now:     time.Now,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (e *engine) lock(collection string) func() {
	e.mu.Lock()
	l, ok := e.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		e.locks[collection] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (e *engine) logger(op, collection string) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"store":      e.backend.name(),
		"op":         op,
		"collection": collection,
	})
}

func (e *engine) load(ctx context.Context, op, collection string) ([]Document, error) {
	docs, err := e.backend.load(ctx, collection)
	if err != nil {
		e.logger(op, collection).WithError(err).Error("Failed to read collection")
		return nil, fmt.Errorf("%s %s: %w", op, collection, err)
	}
	return docs, nil
}

func (e *engine) persist(ctx context.Context, op, collection string, next []Document, m mutation) error {
	if err := e.backend.apply(ctx, collection, next, m); err != nil {
		e.logger(op, collection).WithError(err).Error("Failed to write collection")
		return fmt.Errorf("%s %s: %w", op, collection, err)
	}
	return nil
}

func (e *engine) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if f, ok := e.backend.(finder); ok {
		docs, err := f.find(ctx, collection, filter)
		if err != nil {
			e.logger("find", collection).WithError(err).Error("Failed to query collection")
			return nil, fmt.Errorf("find %s: %w", collection, err)
		}
		return docs, nil
	}

	docs, err := e.load(ctx, "find", collection)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if filter.Match(doc) {
			out = append(out, doc.Clone())
		}
	}
	return out, nil
}

func (e *engine) FindOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	docs, err := e.Find(ctx, collection, filter)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0], nil
}

func (e *engine) FindByID(ctx context.Context, collection, id string) (Document, error) {
	return e.FindOne(ctx, collection, Where(Eq(FieldID, id)))
}

func (e *engine) InsertOne(ctx context.Context, collection string, doc Document) (Document, error) {
	inserted, err := e.InsertMany(ctx, collection, []Document{doc})
	if err != nil {
		return nil, err
	}
	return inserted[0], nil
}

func (e *engine) InsertMany(ctx context.Context, collection string, docs []Document) ([]Document, error) {
	unlock := e.lock(collection)
	defer unlock()

	existing, err := e.load(ctx, "insert", collection)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(existing)+len(docs))
	for _, doc := range existing {
		taken[doc.ID()] = struct{}{}
	}

	now := timestamp(e.now())
	added := make([]Document, 0, len(docs))
	for _, doc := range docs {
		stored := doc.Clone()
		if stored == nil {
			stored = Document{}
		}
		id := stored.ID()
		if _, dup := taken[id]; id == "" || dup {
			id = NewID()
			for {
				if _, dup := taken[id]; !dup {
					break
				}
				id = NewID()
			}
		}
		taken[id] = struct{}{}
		stored[FieldID] = id
		stored[FieldCreatedAt] = now
		stored[FieldUpdatedAt] = now
		added = append(added, stored)
	}

	next := append(existing, added...)
	if err := e.persist(ctx, "insert", collection, next, mutation{kind: mutationInsert, docs: added}); err != nil {
		return nil, err
	}

	out := make([]Document, len(added))
	for i, doc := range added {
		out[i] = doc.Clone()
	}
	return out, nil
}

func (e *engine) UpdateOne(ctx context.Context, collection string, filter Filter, patch Document) (Document, error) {
	// Patches may carry typed values such as time.Time; store their JSON form.
	normalized, err := ToDocument(patch)
	if err != nil {
		return nil, err
	}

	unlock := e.lock(collection)
	defer unlock()

	docs, err := e.load(ctx, "update", collection)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		if !filter.Match(doc) {
			continue
		}
		updated := doc.Clone()
		for k, v := range normalized {
			if k == FieldID || k == FieldCreatedAt {
				continue
			}
			updated[k] = v
		}
		updated[FieldUpdatedAt] = timestamp(e.now())

		next := make([]Document, len(docs))
		copy(next, docs)
		next[i] = updated
		if err := e.persist(ctx, "update", collection, next, mutation{kind: mutationReplace, docs: []Document{updated}}); err != nil {
			return nil, err
		}
		return updated.Clone(), nil
	}
	return nil, ErrNotFound
}

func (e *engine) UpdateByID(ctx context.Context, collection, id string, patch Document) (Document, error) {
	return e.UpdateOne(ctx, collection, Where(Eq(FieldID, id)), patch)
}

func (e *engine) DeleteOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	unlock := e.lock(collection)
	defer unlock()

	docs, err := e.load(ctx, "delete", collection)
	if err != nil {
		return nil, err
	}

	for i, doc := range docs {
		if !filter.Match(doc) {
			continue
		}
		next := make([]Document, 0, len(docs)-1)
		next = append(next, docs[:i]...)
		next = append(next, docs[i+1:]...)
		if err := e.persist(ctx, "delete", collection, next, mutation{kind: mutationDelete, docs: []Document{doc}}); err != nil {
			return nil, err
		}
		return doc.Clone(), nil
	}
	return nil, ErrNotFound
}

func (e *engine) DeleteByID(ctx context.Context, collection, id string) (Document, error) {
	return e.DeleteOne(ctx, collection, Where(Eq(FieldID, id)))
}

func (e *engine) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	docs, err := e.Find(ctx, collection, filter)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (e *engine) Aggregate(ctx context.Context, collection string, stages ...Stage) ([]Document, error) {
	docs, err := e.Find(ctx, collection, nil)
	if err != nil {
		return nil, err
	}
	return RunPipeline(docs, stages...)
}

func (e *engine) Close() error {
	return e.backend.close()
}

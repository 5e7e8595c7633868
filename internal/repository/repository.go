// internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/otakughor/backend/internal/store"
)

const (
	CollectionUsers         = "users"
	CollectionAdmins        = "admins"
	CollectionOrders        = "orders"
	CollectionProducts      = "products"
	CollectionNotifications = "notifications"
	CollectionAuditLogs     = "audit_logs"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// collection decodes documents of one store collection into T.
type collection[T any] struct {
	store store.Store
	name  string
}

func (c collection[T]) find(ctx context.Context, filter store.Filter) ([]T, error) {
	docs, err := c.store.Find(ctx, c.name, filter)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[T](docs)
}

// findSorted returns matches ordered by field, missing values last.
func (c collection[T]) findSorted(ctx context.Context, filter store.Filter, field string, desc bool) ([]T, error) {
	docs, err := c.store.Find(ctx, c.name, filter)
	if err != nil {
		return nil, err
	}
	store.SortDocuments(docs, field, desc)
	return store.DecodeAll[T](docs)
}

func (c collection[T]) findOne(ctx context.Context, filter store.Filter) (*T, error) {
	doc, err := c.store.FindOne(ctx, c.name, filter)
	if err != nil {
		return nil, err
	}
	return c.decode(doc)
}

func (c collection[T]) findByID(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.FindByID(ctx, c.name, id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, err)
	}
	return c.decode(doc)
}

func (c collection[T]) insert(ctx context.Context, v *T) (*T, error) {
	doc, err := store.ToDocument(v)
	if err != nil {
		return nil, err
	}
	stored, err := c.store.InsertOne(ctx, c.name, doc)
	if err != nil {
		return nil, err
	}
	return c.decode(stored)
}

func (c collection[T]) update(ctx context.Context, id string, patch store.Document) (*T, error) {
	doc, err := c.store.UpdateByID(ctx, c.name, id, patch)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, err)
	}
	return c.decode(doc)
}

func (c collection[T]) delete(ctx context.Context, id string) (*T, error) {
	doc, err := c.store.DeleteByID(ctx, c.name, id)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", c.name, id, err)
	}
	return c.decode(doc)
}

func (c collection[T]) count(ctx context.Context, filter store.Filter) (int, error) {
	return c.store.Count(ctx, c.name, filter)
}

func (c collection[T]) decode(doc store.Document) (*T, error) {
	var v T
	if err := store.Decode(doc, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func number(doc store.Document, field string) float64 {
	switch n := doc[field].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

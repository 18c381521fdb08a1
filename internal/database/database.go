// Package database defines the document-store capability the backend is
// built against: collection-oriented storage with point lookups,
// equality/range queries and atomic multi-document write batches.
package database

import (
	"context"
	"errors"
)

var ErrDocNotFound = errors.New("document not found")

// Operator is a query comparison operator.
type Operator string

const (
	OpEqual          Operator = "=="
	OpGreaterThan    Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLessThan       Operator = "<"
	OpLessOrEqual    Operator = "<="
)

// Document is a stored record: its assigned id plus its fields. Nested
// fields are nested maps; field paths use dot notation ("order.pedl").
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Store is the document-store capability.
type Store interface {
	FindAll(ctx context.Context, collection string) ([]Document, error)
	FindByQuery(ctx context.Context, collection, field string, op Operator, value interface{}) ([]Document, error)
	// FindByID returns ErrDocNotFound when the document does not exist.
	FindByID(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection string, data map[string]interface{}) (*Document, error)
	// Update applies a partial merge of the given field paths only.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// ArrayAppend atomically appends values to an array field, skipping
	// values already present. Concurrent appends to the same field never
	// overwrite each other. Returns ErrDocNotFound for a missing document.
	ArrayAppend(ctx context.Context, collection, id, field string, values ...interface{}) error
	// ArrayRemove atomically removes every occurrence of the given values
	// from an array field.
	ArrayRemove(ctx context.Context, collection, id, field string, values ...interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Batch() Batch
}

// Batch collects partial updates and commits them atomically: either every
// queued update applies or none do.
type Batch interface {
	Update(collection, id string, fields map[string]interface{})
	Commit(ctx context.Context) error
}

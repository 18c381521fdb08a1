package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on top of Cloud Firestore. Its WriteBatch
// is the atomic multi-write primitive the ordering engine depends on.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) FindAll(ctx context.Context, collection string) ([]Document, error) {
	return s.collectDocs(s.client.Collection(collection).Documents(ctx))
}

func (s *FirestoreStore) FindByQuery(ctx context.Context, collection, field string, op Operator, value interface{}) ([]Document, error) {
	query := s.client.Collection(collection).Where(field, string(op), value)
	return s.collectDocs(query.Documents(ctx))
}

func (s *FirestoreStore) FindByID(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrDocNotFound
		}
		return nil, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, data map[string]interface{}) (*Document, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create document in %s: %w", collection, err)
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read back created document %s/%s: %w", collection, ref.ID, err)
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, toUpdates(fields))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrDocNotFound
		}
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) ArrayAppend(ctx context.Context, collection, id, field string, values ...interface{}) error {
	return s.updateArray(ctx, collection, id, field, firestore.ArrayUnion(values...))
}

func (s *FirestoreStore) ArrayRemove(ctx context.Context, collection, id, field string, values ...interface{}) error {
	return s.updateArray(ctx, collection, id, field, firestore.ArrayRemove(values...))
}

func (s *FirestoreStore) updateArray(ctx context.Context, collection, id, field string, transform interface{}) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{{Path: field, Value: transform}})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return ErrDocNotFound
		}
		return fmt.Errorf("failed to update array %s on %s/%s: %w", field, collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Batch() Batch {
	return &firestoreBatch{client: s.client, batch: s.client.Batch()}
}

type firestoreBatch struct {
	client *firestore.Client
	batch  *firestore.WriteBatch
	size   int
}

func (b *firestoreBatch) Update(collection, id string, fields map[string]interface{}) {
	ref := b.client.Collection(collection).Doc(id)
	b.batch.Update(ref, toUpdates(fields))
	b.size++
}

func (b *firestoreBatch) Commit(ctx context.Context) error {
	if b.size == 0 {
		return nil
	}
	if _, err := b.batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch of %d updates: %w", b.size, err)
	}
	return nil
}

func (s *FirestoreStore) collectDocs(it *firestore.DocumentIterator) ([]Document, error) {
	defer it.Stop()

	out := make([]Document, 0, 16)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate documents: %w", err)
		}
		out = append(out, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

func toUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}

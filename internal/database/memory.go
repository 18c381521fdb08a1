package database

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Store used by tests and local development.
// A batch applies all of its updates under one lock, mirroring the atomic
// commit semantics of the Firestore batch.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]interface{})}
}

func (s *MemoryStore) FindAll(_ context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, len(s.collections[collection]))
	for id, data := range s.collections[collection] {
		out = append(out, Document{ID: id, Data: deepCopy(data)})
	}
	return out, nil
}

func (s *MemoryStore) FindByQuery(_ context.Context, collection, field string, op Operator, value interface{}) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Document, 0, 8)
	for id, data := range s.collections[collection] {
		got, ok := getField(data, field)
		if !ok {
			continue
		}
		match, err := compare(got, op, value)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, Document{ID: id, Data: deepCopy(data)})
		}
	}
	return out, nil
}

func (s *MemoryStore) FindByID(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrDocNotFound
	}
	return &Document{ID: id, Data: deepCopy(data)}, nil
}

func (s *MemoryStore) Create(_ context.Context, collection string, data map[string]interface{}) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]interface{})
	}

	id := uuid.New().String()
	s.collections[collection][id] = deepCopy(data)
	return &Document{ID: id, Data: deepCopy(data)}, nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyUpdate(collection, id, fields)
}

func (s *MemoryStore) ArrayAppend(_ context.Context, collection, id, field string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return ErrDocNotFound
	}

	existing, _ := getField(data, field)
	arr := asInterfaceSlice(existing)

	seen := make(map[interface{}]bool, len(arr))
	for _, v := range arr {
		seen[v] = true
	}
	for _, v := range values {
		if seen[v] {
			continue
		}
		arr = append(arr, copyValue(v))
		seen[v] = true
	}

	setField(data, field, arr)
	return nil
}

func (s *MemoryStore) ArrayRemove(_ context.Context, collection, id, field string, values ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return ErrDocNotFound
	}

	remove := make(map[interface{}]bool, len(values))
	for _, v := range values {
		remove[v] = true
	}

	existing, _ := getField(data, field)
	arr := asInterfaceSlice(existing)
	out := make([]interface{}, 0, len(arr))
	for _, v := range arr {
		if !remove[v] {
			out = append(out, v)
		}
	}

	setField(data, field, out)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrDocNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *MemoryStore) Batch() Batch {
	return &memoryBatch{store: s}
}

func (s *MemoryStore) applyUpdate(collection, id string, fields map[string]interface{}) error {
	data, ok := s.collections[collection][id]
	if !ok {
		return ErrDocNotFound
	}
	for path, value := range fields {
		setField(data, path, value)
	}
	return nil
}

type batchWrite struct {
	collection string
	id         string
	fields     map[string]interface{}
}

type memoryBatch struct {
	store  *MemoryStore
	writes []batchWrite
}

func (b *memoryBatch) Update(collection, id string, fields map[string]interface{}) {
	b.writes = append(b.writes, batchWrite{collection: collection, id: id, fields: deepCopy(fields)})
}

func (b *memoryBatch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	// Validate every target first so a missing document fails the whole
	// batch instead of leaving it half applied.
	for _, w := range b.writes {
		if _, ok := b.store.collections[w.collection][w.id]; !ok {
			return fmt.Errorf("batch update target %s/%s: %w", w.collection, w.id, ErrDocNotFound)
		}
	}
	for _, w := range b.writes {
		if err := b.store.applyUpdate(w.collection, w.id, w.fields); err != nil {
			return err
		}
	}
	return nil
}

func getField(data map[string]interface{}, path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	var current interface{} = data
	for _, part := range parts {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func setField(data map[string]interface{}, path string, value interface{}) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

func compare(got interface{}, op Operator, want interface{}) (bool, error) {
	if op == OpEqual {
		gn, gok := asFloat(got)
		wn, wok := asFloat(want)
		if gok && wok {
			return gn == wn, nil
		}
		return got == want, nil
	}

	gn, gok := asFloat(got)
	wn, wok := asFloat(want)
	if !gok || !wok {
		return false, fmt.Errorf("operator %q requires numeric operands, got %T and %T", op, got, want)
	}

	switch op {
	case OpGreaterThan:
		return gn > wn, nil
	case OpGreaterOrEqual:
		return gn >= wn, nil
	case OpLessThan:
		return gn < wn, nil
	case OpLessOrEqual:
		return gn <= wn, nil
	default:
		return false, fmt.Errorf("unsupported operator %q", op)
	}
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func asInterfaceSlice(v interface{}) []interface{} {
	switch t := v.(type) {
	case []interface{}:
		return t
	case []string:
		out := make([]interface{}, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	}
	return nil
}

func deepCopy(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return deepCopy(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	default:
		return v
	}
}

// Package memstore provides in-memory implementations of the pages storage
// collaborators. Hosts use them to drive a registrar in tests or demos
// without a database; values survive only for the process lifetime.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pages "github.com/damoang/angple-pages"
)

type record struct {
	rec     pages.Record
	meta    map[string]any
	deleted bool
}

// ContentStore is an in-memory pages.ContentStore. Records get sequential
// IDs starting at 1. Safe for concurrent use.
type ContentStore struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]*record

	// BaseURL prefixes permalinks, e.g. "https://example.com". Empty
	// produces rooted paths like "/pages/3".
	BaseURL string
}

// NewContentStore creates an empty content store.
func NewContentStore() *ContentStore {
	return &ContentStore{nextID: 1, records: make(map[int64]*record)}
}

// Create persists a new record and returns its assigned ID.
func (s *ContentStore) Create(_ context.Context, attrs pages.RecordAttrs) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	r := &record{
		rec: pages.Record{
			ID:        id,
			Title:     attrs.Title,
			Content:   attrs.Content,
			Status:    attrs.Status,
			Type:      attrs.Type,
			AuthorID:  attrs.AuthorID,
			Parent:    attrs.Parent,
			MenuOrder: attrs.MenuOrder,
			Comments:  attrs.Comments,
			Pingbacks: attrs.Pingbacks,
		},
		meta: make(map[string]any),
	}
	for k, v := range attrs.Meta {
		r.meta[k] = v
	}
	s.records[id] = r
	return id, nil
}

// Update rewrites the managed attributes of a live record. Metadata is left
// untouched.
func (s *ContentStore) Update(_ context.Context, id int64, attrs pages.RecordAttrs) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.deleted {
		return 0, fmt.Errorf("%w: record %d", pages.ErrNotFound, id)
	}
	r.rec.Title = attrs.Title
	r.rec.Content = attrs.Content
	r.rec.Status = attrs.Status
	r.rec.Type = attrs.Type
	r.rec.AuthorID = attrs.AuthorID
	r.rec.Parent = attrs.Parent
	r.rec.MenuOrder = attrs.MenuOrder
	r.rec.Comments = attrs.Comments
	r.rec.Pingbacks = attrs.Pingbacks
	return id, nil
}

// Fetch returns a copy of the live record, or (nil, nil) when the ID is
// unknown or the record was deleted.
func (s *ContentStore) Fetch(_ context.Context, id int64) (*pages.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.deleted {
		return nil, nil
	}
	rec := r.rec
	return &rec, nil
}

// Delete removes a record. A soft delete keeps the entry and can be undone
// with Restore; a permanent delete drops it entirely.
func (s *ContentStore) Delete(_ context.Context, id int64, permanent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return nil
	}
	if permanent {
		delete(s.records, id)
		return nil
	}
	r.deleted = true
	return nil
}

// Restore undoes a soft delete. Returns pages.ErrNotFound when the ID was
// never created or was permanently deleted.
func (s *ContentStore) Restore(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: record %d", pages.ErrNotFound, id)
	}
	r.deleted = false
	return nil
}

// Permalink returns the public URL for a live record, or "" when the record
// does not resolve.
func (s *ContentStore) Permalink(_ context.Context, id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.deleted {
		return "", nil
	}
	return fmt.Sprintf("%s/pages/%d", s.BaseURL, id), nil
}

// Meta returns a copy of all metadata stored for a record.
func (s *ContentStore) Meta(_ context.Context, id int64) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.deleted {
		return nil, fmt.Errorf("%w: record %d", pages.ErrNotFound, id)
	}
	meta := make(map[string]any, len(r.meta))
	for k, v := range r.meta {
		meta[k] = v
	}
	return meta, nil
}

// SetMeta stores one metadata value for a live record.
func (s *ContentStore) SetMeta(_ context.Context, id int64, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.deleted {
		return fmt.Errorf("%w: record %d", pages.ErrNotFound, id)
	}
	r.meta[key] = value
	return nil
}

// SettingsStore is an in-memory pages.SettingsStore. Values round-trip
// through JSON so decode behavior matches database-backed stores. Safe for
// concurrent use.
type SettingsStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewSettingsStore creates an empty settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{values: make(map[string][]byte)}
}

// Get decodes the named value into dest. Returns pages.ErrNotFound when the
// name has never been stored.
func (s *SettingsStore) Get(_ context.Context, name string, dest any) error {
	s.mu.Lock()
	raw, ok := s.values[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: option %q", pages.ErrNotFound, name)
	}
	return json.Unmarshal(raw, dest)
}

// Set stores a value under name, replacing any prior value.
func (s *SettingsStore) Set(_ context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[name] = raw
	s.mu.Unlock()
	return nil
}

// Delete removes the named value. Deleting an absent name is not an error.
func (s *SettingsStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	delete(s.values, name)
	s.mu.Unlock()
	return nil
}

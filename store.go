package pages

import (
	"context"
	"time"
)

// Record is a content entity as the host content store reports it.
type Record struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Status    Status    `json:"status"`
	Type      string    `json:"type"`
	AuthorID  int64     `json:"author_id"`
	Parent    int64     `json:"parent"`
	MenuOrder int       `json:"menu_order"`
	Comments  bool      `json:"comments"`
	Pingbacks bool      `json:"pingbacks"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentStore is the host-side content storage collaborator. The registrar
// never talks to content storage except through this interface; gormstore
// provides the production implementation and memstore an in-memory one.
type ContentStore interface {
	// Create persists a new record and returns its assigned ID.
	Create(ctx context.Context, attrs RecordAttrs) (int64, error)

	// Update rewrites the managed attributes of an existing record.
	// Metadata is left untouched. Returns the record ID.
	Update(ctx context.Context, id int64, attrs RecordAttrs) (int64, error)

	// Fetch returns the live record, or (nil, nil) when no live record
	// exists at that ID.
	Fetch(ctx context.Context, id int64) (*Record, error)

	// Delete removes a record. permanent=false may be implemented as a
	// soft delete; permanent=true must make the ID unresolvable for good.
	Delete(ctx context.Context, id int64, permanent bool) error

	// Permalink returns the public URL for a record, or "" when the store
	// cannot produce one.
	Permalink(ctx context.Context, id int64) (string, error)

	// Meta returns all metadata stored for a record.
	Meta(ctx context.Context, id int64) (map[string]any, error)

	// SetMeta stores one metadata value for a record, replacing any prior
	// value under the same key.
	SetMeta(ctx context.Context, id int64, key string, value any) error
}

// SettingsStore is the host-side named-value storage collaborator. Values are
// JSON-encodable; Get decodes into dest the same way it was stored.
type SettingsStore interface {
	// Get decodes the named value into dest. Returns ErrNotFound when the
	// name has never been stored.
	Get(ctx context.Context, name string, dest any) error

	// Set stores a value under name, replacing any prior value.
	Set(ctx context.Context, name string, value any) error

	// Delete removes the named value. Deleting an absent name is not an
	// error.
	Delete(ctx context.Context, name string) error
}

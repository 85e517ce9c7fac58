// Package gormstore implements the pages storage collaborators over a GORM
// database. PageRecord rows carry the content, page_meta the per-record
// metadata and page_options the registrar's own bookkeeping values.
//
// Soft deletion: Delete with permanent=false marks the row deleted and the
// record stops resolving; permanent=true removes the row and its metadata
// for good. Hosts can recover soft-deleted rows with their own tooling.
package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	pages "github.com/damoang/angple-pages"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Open connects to MySQL with the session settings the angple backend uses.
// dsn is a go-sql-driver DSN. Run Migrate on the returned handle before the
// first Install pass.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	db.Exec("SET NAMES utf8mb4")

	return db, nil
}

// ContentStore implements pages.ContentStore over the pages and page_meta
// tables.
type ContentStore struct {
	db      *gorm.DB
	baseURL string
}

// NewContentStore creates a content store. baseURL prefixes permalinks,
// e.g. "https://damoang.net".
func NewContentStore(db *gorm.DB, baseURL string) *ContentStore {
	return &ContentStore{db: db, baseURL: baseURL}
}

// Create inserts a record row and its metadata in one transaction and
// returns the assigned ID.
func (s *ContentStore) Create(ctx context.Context, attrs pages.RecordAttrs) (int64, error) {
	row := rowFromAttrs(attrs)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		for key, value := range attrs.Meta {
			if err := upsertMeta(tx, row.ID, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// Update rewrites the managed columns of a live record. Metadata is left
// untouched. Zero values overwrite: an update to menu order 0 really sets 0.
func (s *ContentStore) Update(ctx context.Context, id int64, attrs pages.RecordAttrs) (int64, error) {
	var row PageRecord
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: record %d", pages.ErrNotFound, id)
		}
		return 0, err
	}

	row.Title = attrs.Title
	row.Content = attrs.Content
	row.Status = string(attrs.Status)
	row.Type = attrs.Type
	row.AuthorID = attrs.AuthorID
	row.ParentID = attrs.Parent
	row.MenuOrder = attrs.MenuOrder
	row.Comments = attrs.Comments
	row.Pingbacks = attrs.Pingbacks

	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// Fetch returns the live record, or (nil, nil) when the ID is unknown or the
// row is soft-deleted.
func (s *ContentStore) Fetch(ctx context.Context, id int64) (*pages.Record, error) {
	var row PageRecord
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Not found is not an error
		}
		return nil, err
	}

	return row.ToRecord(), nil
}

// Delete removes a record. permanent=false soft-deletes the row (metadata is
// kept); permanent=true removes the row and its metadata entirely.
func (s *ContentStore) Delete(ctx context.Context, id int64, permanent bool) error {
	if !permanent {
		return s.db.WithContext(ctx).Delete(&PageRecord{}, id).Error
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&PageRecord{}, id).Error; err != nil {
			return err
		}
		return tx.Where("page_id = ?", id).Delete(&PageMeta{}).Error
	})
}

// Permalink returns the public URL for a live record, or "" when the record
// does not resolve.
func (s *ContentStore) Permalink(ctx context.Context, id int64) (string, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&PageRecord{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	if count == 0 {
		return "", nil
	}
	return fmt.Sprintf("%s/pages/%d", s.baseURL, id), nil
}

// Meta returns all metadata stored for a record, JSON-decoded.
func (s *ContentStore) Meta(ctx context.Context, id int64) (map[string]any, error) {
	var rows []PageMeta
	err := s.db.WithContext(ctx).
		Where("page_id = ?", id).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	meta := make(map[string]any, len(rows))
	for _, row := range rows {
		if row.MetaValue == nil {
			meta[row.MetaKey] = nil
			continue
		}
		var value any
		if err := json.Unmarshal([]byte(*row.MetaValue), &value); err != nil {
			// Legacy rows may hold plain text; expose it as-is.
			value = *row.MetaValue
		}
		meta[row.MetaKey] = value
	}
	return meta, nil
}

// SetMeta stores one metadata value for a record, replacing any prior value
// under the same key.
func (s *ContentStore) SetMeta(ctx context.Context, id int64, key string, value any) error {
	return upsertMeta(s.db.WithContext(ctx), id, key, value)
}

func upsertMeta(db *gorm.DB, pageID int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	text := string(raw)

	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "page_id"}, {Name: "meta_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
	}).Create(&PageMeta{PageID: pageID, MetaKey: key, MetaValue: &text}).Error
}

func rowFromAttrs(attrs pages.RecordAttrs) *PageRecord {
	return &PageRecord{
		Title:     attrs.Title,
		Content:   attrs.Content,
		Status:    string(attrs.Status),
		Type:      attrs.Type,
		AuthorID:  attrs.AuthorID,
		ParentID:  attrs.Parent,
		MenuOrder: attrs.MenuOrder,
		Comments:  attrs.Comments,
		Pingbacks: attrs.Pingbacks,
	}
}

// SettingsStore implements pages.SettingsStore over the page_options table.
// Values are stored as JSON text.
type SettingsStore struct {
	db *gorm.DB
}

// NewSettingsStore creates a settings store.
func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// Get decodes the named option into dest. Returns pages.ErrNotFound when the
// name has never been stored.
func (s *SettingsStore) Get(ctx context.Context, name string, dest any) error {
	var row PageOption
	err := s.db.WithContext(ctx).
		Where("option_name = ?", name).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: option %q", pages.ErrNotFound, name)
		}
		return err
	}
	if row.OptionValue == nil {
		return fmt.Errorf("%w: option %q", pages.ErrNotFound, name)
	}
	return json.Unmarshal([]byte(*row.OptionValue), dest)
}

// Set stores a value under name, replacing any prior value.
func (s *SettingsStore) Set(ctx context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	text := string(raw)

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "option_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"option_value", "updated_at"}),
	}).Create(&PageOption{OptionName: name, OptionValue: &text}).Error
}

// Delete removes the named option. Deleting an absent name is not an error.
func (s *SettingsStore) Delete(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).
		Where("option_name = ?", name).
		Delete(&PageOption{}).Error
}

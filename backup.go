package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotEntry is one page as captured from its live record.
type SnapshotEntry struct {
	Key       string         `json:"key"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Status    Status         `json:"status"`
	MenuOrder int            `json:"menu_order,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// Snapshot is a point-in-time capture of every declared page that resolved
// to a live record.
type Snapshot struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Version   string          `json:"version,omitempty"`
	Entries   []SnapshotEntry `json:"entries"`
}

// Backup captures the live record of every declared page into a snapshot,
// persists it under the backup option and returns it. Keys without a live
// record are skipped. A later Backup overwrites the previous snapshot.
func (r *Registrar) Backup(ctx context.Context) (*Snapshot, error) {
	ids, err := r.ids.load(ctx, r.order)
	if err != nil {
		return nil, fmt.Errorf("load page mappings: %w", err)
	}

	snap := &Snapshot{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Version:   r.cfg.Version,
	}

	for _, key := range r.order {
		id := ids[key]
		if id <= 0 {
			continue
		}
		rec, err := r.content.Fetch(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("fetch record %d for %q: %w", id, key, err)
		}
		if rec == nil {
			r.log.Debug().Str("key", key).Int64("record_id", id).
				Msg("record gone, omitted from snapshot")
			continue
		}
		entry := SnapshotEntry{
			Key:       key,
			Title:     rec.Title,
			Content:   rec.Content,
			Status:    rec.Status,
			MenuOrder: rec.MenuOrder,
		}
		if meta, err := r.content.Meta(ctx, id); err != nil {
			r.log.Warn().Err(err).Str("key", key).Msg("metadata not captured")
		} else if len(meta) > 0 {
			entry.Meta = meta
		}
		snap.Entries = append(snap.Entries, entry)
	}

	if err := r.settings.Set(ctx, r.backupOption, snap); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}
	r.log.Debug().Str("snapshot_id", snap.ID).Int("entries", len(snap.Entries)).
		Msg("backup written")
	return snap, nil
}

// Restore re-declares every entry of the persisted snapshot, clears the
// version guard and runs a fresh install pass, recreating records whose IDs
// no longer resolve. Metadata is reapplied best-effort afterwards; a meta
// failure is logged, not returned. Returns ErrNoBackup when no snapshot was
// ever persisted.
func (r *Registrar) Restore(ctx context.Context) error {
	var snap Snapshot
	if err := r.settings.Get(ctx, r.backupOption, &snap); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNoBackup
		}
		return fmt.Errorf("load snapshot: %w", err)
	}

	for _, entry := range snap.Entries {
		p := Page{
			Title:     entry.Title,
			Content:   entry.Content,
			Status:    entry.Status,
			MenuOrder: entry.MenuOrder,
		}
		if err := r.Declare(entry.Key, p); err != nil {
			return fmt.Errorf("redeclare %q: %w", entry.Key, err)
		}
	}

	if err := r.ForceReinstall(ctx); err != nil {
		return fmt.Errorf("clear install state: %w", err)
	}
	ids, err := r.Install(ctx)
	if err != nil {
		return err
	}

	for _, entry := range snap.Entries {
		id := ids[entry.Key]
		if id <= 0 || len(entry.Meta) == 0 {
			continue
		}
		for mk, mv := range entry.Meta {
			if err := r.content.SetMeta(ctx, id, mk, mv); err != nil {
				r.log.Warn().Err(err).Str("key", entry.Key).Str("meta_key", mk).
					Msg("metadata not restored")
			}
		}
	}

	r.log.Debug().Str("snapshot_id", snap.ID).Msg("backup restored")
	return nil
}

package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// idStore persists the key→record-ID mapping. Two backends exist: the
// aggregate store keeps the whole mapping under one settings name, the
// per-key store keeps one externally-named entry per page key. The backend is
// fixed when the registrar is constructed.
type idStore interface {
	// load returns the stored IDs for the given keys; absent keys are
	// simply missing from the result, never an error.
	load(ctx context.Context, keys []string) (map[string]int64, error)

	// loadAll returns every mapping the backend can enumerate. The
	// per-key backend cannot enumerate external storage and falls back to
	// the declared key set.
	loadAll(ctx context.Context, declared []string) (map[string]int64, error)

	// save persists the full mapping. labels carry page titles for
	// backends that store a richer {value, label} shape.
	save(ctx context.Context, ids map[string]int64, labels map[string]string) error

	// clear removes the mappings for the given keys.
	clear(ctx context.Context, keys []string) error
}

// aggregateStore holds the entire mapping as one JSON object under a single
// settings name. One read, one write.
type aggregateStore struct {
	settings SettingsStore
	option   string
}

func (s *aggregateStore) read(ctx context.Context) (map[string]int64, error) {
	stored := make(map[string]int64)
	if err := s.settings.Get(ctx, s.option, &stored); err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]int64{}, nil
		}
		return nil, err
	}
	return stored, nil
}

func (s *aggregateStore) load(ctx context.Context, keys []string) (map[string]int64, error) {
	stored, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int64, len(keys))
	for _, key := range keys {
		if id := stored[key]; id > 0 {
			ids[key] = id
		}
	}
	return ids, nil
}

func (s *aggregateStore) loadAll(ctx context.Context, _ []string) (map[string]int64, error) {
	stored, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	for key, id := range stored {
		if id <= 0 {
			delete(stored, key)
		}
	}
	return stored, nil
}

func (s *aggregateStore) save(ctx context.Context, ids map[string]int64, _ map[string]string) error {
	return s.settings.Set(ctx, s.option, ids)
}

func (s *aggregateStore) clear(ctx context.Context, _ []string) error {
	return s.settings.Delete(ctx, s.option)
}

// perKeyStore keeps one entry per page key through caller-supplied get/set
// callbacks, named "<key>_page". The registrar prefix is deliberately not
// applied to these names so they line up with external settings-manager
// conventions. Values are written as {value, label} whenever a label is
// known, and read back from either that shape or a bare number.
type perKeyStore struct {
	get func(name string) (any, bool)
	set func(name string, value any) bool
}

func perKeyName(key string) string {
	return key + "_page"
}

func (s *perKeyStore) load(_ context.Context, keys []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(keys))
	for _, key := range keys {
		raw, ok := s.get(perKeyName(key))
		if !ok {
			continue
		}
		if id := coerceID(raw); id > 0 {
			ids[key] = id
		}
	}
	return ids, nil
}

func (s *perKeyStore) loadAll(ctx context.Context, declared []string) (map[string]int64, error) {
	return s.load(ctx, declared)
}

func (s *perKeyStore) save(_ context.Context, ids map[string]int64, labels map[string]string) error {
	var failed []string
	for key, id := range ids {
		var value any = id
		if label := labels[key]; label != "" {
			value = map[string]any{"value": id, "label": label}
		}
		if !s.set(perKeyName(key), value) {
			failed = append(failed, key)
		}
	}
	// Writes that already succeeded stay in place; there is no rollback.
	if len(failed) > 0 {
		return fmt.Errorf("per-key mapping write failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

func (s *perKeyStore) clear(_ context.Context, keys []string) error {
	// The callback contract has no delete; a zero value marks removal and
	// reads back as absent.
	var failed []string
	for _, key := range keys {
		if !s.set(perKeyName(key), 0) {
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("per-key mapping clear failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

// coerceID extracts a record ID from the shapes per-key storage may hand
// back: bare numbers, numeric strings, json.Number, or a {value, label}
// object. Anything else reads as 0 (absent).
func coerceID(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0
		}
		return id
	case string:
		id, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return id
	case map[string]any:
		return coerceID(n["value"])
	}
	return 0
}

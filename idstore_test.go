package pages

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceID(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
	}{
		{"nil", nil, 0},
		{"int", 5, 5},
		{"int64", int64(6), 6},
		{"float64 from json", float64(7), 7},
		{"json number", json.Number("8"), 8},
		{"numeric string", "42", 42},
		{"garbage string", "abc", 0},
		{"bool", true, 0},
		{"rich shape", map[string]any{"value": float64(9), "label": "About"}, 9},
		{"rich shape without value", map[string]any{"label": "About"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coerceID(tt.input); got != tt.want {
				t.Errorf("coerceID(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestPerKeyName(t *testing.T) {
	if got := perKeyName("about"); got != "about_page" {
		t.Errorf("perKeyName(\"about\") = %q, want \"about_page\"", got)
	}
}

func newCallbackStore() (*perKeyStore, map[string]any) {
	values := map[string]any{}
	store := &perKeyStore{
		get: func(name string) (any, bool) {
			v, ok := values[name]
			return v, ok
		},
		set: func(name string, value any) bool {
			values[name] = value
			return true
		},
	}
	return store, values
}

func TestPerKeyStore_SaveRichShape(t *testing.T) {
	ctx := context.Background()
	store, values := newCallbackStore()

	err := store.save(ctx, map[string]int64{"about": 3}, map[string]string{"about": "About"})

	assert.NoError(t, err)
	assert.Equal(t, map[string]any{"value": int64(3), "label": "About"}, values["about_page"])

	ids, err := store.load(ctx, []string{"about", "missing"})
	assert.NoError(t, err)
	assert.Equal(t, map[string]int64{"about": 3}, ids)
}

func TestPerKeyStore_SaveBareValueWithoutLabel(t *testing.T) {
	ctx := context.Background()
	store, values := newCallbackStore()

	err := store.save(ctx, map[string]int64{"about": 3}, nil)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), values["about_page"])
}

func TestPerKeyStore_SaveFailureKeepsPriorWrites(t *testing.T) {
	ctx := context.Background()
	values := map[string]any{}
	store := &perKeyStore{
		get: func(name string) (any, bool) { v, ok := values[name]; return v, ok },
		set: func(name string, value any) bool {
			if name == "broken_page" {
				return false
			}
			values[name] = value
			return true
		},
	}

	err := store.save(ctx, map[string]int64{"about": 1, "broken": 2}, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, int64(1), values["about_page"])
}

func TestPerKeyStore_ClearWritesZero(t *testing.T) {
	ctx := context.Background()
	store, values := newCallbackStore()
	assert.NoError(t, store.save(ctx, map[string]int64{"about": 3}, nil))

	assert.NoError(t, store.clear(ctx, []string{"about"}))

	assert.Equal(t, 0, values["about_page"])
	ids, err := store.load(ctx, []string{"about"})
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAggregateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &aggregateStore{settings: newMemSettings(), option: "wp_page_ids"}

	err := store.save(ctx, map[string]int64{"about": 1, "terms": 2}, nil)
	assert.NoError(t, err)

	ids, err := store.load(ctx, []string{"about", "terms", "missing"})
	assert.NoError(t, err)
	assert.Equal(t, map[string]int64{"about": 1, "terms": 2}, ids)
}

func TestAggregateStore_MissingOptionIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := &aggregateStore{settings: newMemSettings(), option: "wp_page_ids"}

	ids, err := store.load(ctx, []string{"about"})

	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAggregateStore_LoadAllDropsNonPositive(t *testing.T) {
	ctx := context.Background()
	settings := newMemSettings()
	require := assert.New(t)
	require.NoError(settings.Set(ctx, "wp_page_ids", map[string]int64{"about": 1, "gone": 0}))
	store := &aggregateStore{settings: settings, option: "wp_page_ids"}

	ids, err := store.loadAll(ctx, nil)

	require.NoError(err)
	require.Equal(map[string]int64{"about": 1}, ids)
}

func TestAggregateStore_ClearDeletesOption(t *testing.T) {
	ctx := context.Background()
	settings := newMemSettings()
	store := &aggregateStore{settings: settings, option: "wp_page_ids"}
	assert.NoError(t, store.save(ctx, map[string]int64{"about": 1}, nil))

	assert.NoError(t, store.clear(ctx, []string{"about"}))

	assert.False(t, settings.has("wp_page_ids"))
}

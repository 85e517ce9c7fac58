package pages

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stretchr/testify/mock"
)

// --- Mock ContentStore ---

type mockContentStore struct {
	mock.Mock
}

func (m *mockContentStore) Create(ctx context.Context, attrs RecordAttrs) (int64, error) {
	args := m.Called(ctx, attrs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockContentStore) Update(ctx context.Context, id int64, attrs RecordAttrs) (int64, error) {
	args := m.Called(ctx, id, attrs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockContentStore) Fetch(ctx context.Context, id int64) (*Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Record), args.Error(1)
}

func (m *mockContentStore) Delete(ctx context.Context, id int64, permanent bool) error {
	return m.Called(ctx, id, permanent).Error(0)
}

func (m *mockContentStore) Permalink(ctx context.Context, id int64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *mockContentStore) Meta(ctx context.Context, id int64) (map[string]any, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockContentStore) SetMeta(ctx context.Context, id int64, key string, value any) error {
	return m.Called(ctx, id, key, value).Error(0)
}

// --- In-memory SettingsStore ---

// memSettings round-trips values through JSON the way real settings storage
// does, so decode behavior in tests matches production.
type memSettings struct {
	values map[string][]byte
}

func newMemSettings() *memSettings {
	return &memSettings{values: map[string][]byte{}}
}

func (s *memSettings) Get(_ context.Context, name string, dest any) error {
	raw, ok := s.values[name]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (s *memSettings) Set(_ context.Context, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[name] = raw
	return nil
}

func (s *memSettings) Delete(_ context.Context, name string) error {
	delete(s.values, name)
	return nil
}

func (s *memSettings) has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// failingSettings wraps a SettingsStore and fails writes to one name.
type failingSettings struct {
	SettingsStore
	failOn string
}

func (s *failingSettings) Set(ctx context.Context, name string, value any) error {
	if name == s.failOn {
		return errors.New("settings backend down")
	}
	return s.SettingsStore.Set(ctx, name, value)
}

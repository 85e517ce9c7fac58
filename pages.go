package pages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
)

// Config tunes a Registrar. The zero value is usable: no version gate, no
// defaults, aggregate mapping storage, never-update policy, no logging.
type Config struct {
	// Version gates reinstallation. When set, an install pass that already
	// ran at this version (or newer) is skipped entirely. Empty means any
	// completed pass satisfies the gate.
	Version string

	// OptionKey overrides the settings name for the aggregate mapping.
	// Used verbatim, without the registrar prefix. Ignored in per-key mode.
	OptionKey string

	// Defaults are attribute defaults applied to every declared page,
	// keyed by native attribute name (post_status, post_author,
	// menu_order, ...). Unrecognized keys are stored as record metadata.
	// A default fills a field only when the page left it at its zero
	// value.
	Defaults AttributeDefaults

	// AllowEmptyContent permits declaring pages with an empty body.
	AllowEmptyContent bool

	// Debug enables event-level logs of reconciliation decisions.
	Debug bool

	// Logger receives the registrar's log events. Nil with Debug set
	// falls back to a stderr logger; nil without Debug discards them.
	Logger *zerolog.Logger

	// UpdatePolicy decides whether existing records are rewritten during
	// an install pass. Nil means UpdateNever.
	UpdatePolicy UpdatePolicy

	// ResolveAuthor supplies the author ID for pages that declare none.
	ResolveAuthor func(ctx context.Context) int64

	// GetOption and SetOption, when both set, switch mapping storage to
	// per-key mode: one externally managed entry per page key, named
	// "<key>_page". SetOption reports whether the write took.
	GetOption func(name string) (any, bool)
	SetOption func(name string, value any) bool
}

// Registrar holds page declarations and reconciles them against a content
// store. Construct with New, declare pages, then call Install.
//
// A Registrar is not safe for concurrent use. It is meant to be driven by a
// single caller during host startup or an explicit admin action.
type Registrar struct {
	content  ContentStore
	settings SettingsStore
	prefix   string
	cfg      Config
	log      zerolog.Logger
	policy   UpdatePolicy

	templates map[string]Template
	attrs     map[string]RecordAttrs
	order     []string

	ids          idStore
	stateOption  string
	backupOption string
}

// New builds a Registrar over the two storage collaborators. prefix
// namespaces the registrar's own settings entries (mapping, install state,
// backup); unrelated registrars on one settings store should use distinct
// prefixes.
func New(content ContentStore, settings SettingsStore, prefix string, cfg Config) *Registrar {
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	} else if cfg.Debug {
		log = zerolog.New(os.Stderr).With().Timestamp().Str("component", "pages").Logger()
	}
	if !cfg.Debug {
		log = log.Level(zerolog.InfoLevel)
	}

	policy := cfg.UpdatePolicy
	if policy == nil {
		policy = UpdateNever
	}

	var ids idStore
	if cfg.GetOption != nil && cfg.SetOption != nil {
		ids = &perKeyStore{get: cfg.GetOption, set: cfg.SetOption}
	} else {
		option := cfg.OptionKey
		if option == "" {
			option = prefix + "page_ids"
		}
		ids = &aggregateStore{settings: settings, option: option}
	}

	return &Registrar{
		content:      content,
		settings:     settings,
		prefix:       prefix,
		cfg:          cfg,
		log:          log,
		policy:       policy,
		templates:    make(map[string]Template),
		attrs:        make(map[string]RecordAttrs),
		ids:          ids,
		stateOption:  prefix + "pages_installed",
		backupOption: prefix + "pages_backup",
	}
}

// GetID returns the stored record ID for key, or 0 when the key has no
// mapping. The record is not verified to exist; use Exists for that.
func (r *Registrar) GetID(ctx context.Context, key string) int64 {
	ids, err := r.ids.load(ctx, []string{key})
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Msg("mapping lookup failed")
		return 0
	}
	return ids[key]
}

// GetURL returns the permalink of the record mapped to key, or "" when the
// key is unmapped or the content store cannot produce one.
func (r *Registrar) GetURL(ctx context.Context, key string) string {
	id := r.GetID(ctx, key)
	if id <= 0 {
		return ""
	}
	link, err := r.content.Permalink(ctx, id)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Int64("record_id", id).
			Msg("permalink lookup failed")
		return ""
	}
	return link
}

// Exists reports whether key maps to a record that is still live.
func (r *Registrar) Exists(ctx context.Context, key string) bool {
	id := r.GetID(ctx, key)
	if id <= 0 {
		return false
	}
	rec, err := r.content.Fetch(ctx, id)
	if err != nil {
		r.log.Warn().Err(err).Str("key", key).Int64("record_id", id).
			Msg("record lookup failed")
		return false
	}
	return rec != nil
}

// GetAllIDs returns every stored mapping. With verify set, keys whose record
// no longer resolves are dropped from the returned view; the stored mapping
// itself is left untouched.
func (r *Registrar) GetAllIDs(ctx context.Context, verify bool) map[string]int64 {
	ids, err := r.ids.loadAll(ctx, r.order)
	if err != nil {
		r.log.Warn().Err(err).Msg("mapping load failed")
		return map[string]int64{}
	}
	if !verify {
		return ids
	}
	for key, id := range ids {
		rec, err := r.content.Fetch(ctx, id)
		if err != nil || rec == nil {
			delete(ids, key)
		}
	}
	return ids
}

// SetMeta writes one metadata entry on the record mapped to key. Returns
// ErrNotFound when the key has no mapping.
func (r *Registrar) SetMeta(ctx context.Context, key, metaKey string, value any) error {
	id := r.GetID(ctx, key)
	if id <= 0 {
		return fmt.Errorf("%w: no record for key %q", ErrNotFound, key)
	}
	return r.content.SetMeta(ctx, id, metaKey, value)
}

// SetMenuPositions rewrites the menu order of the given keys' records. Each
// record is fetched and written back with only its menu order changed.
// Failures are collected per key; the returned error wraps ErrUpdateFailed
// when any position could not be applied.
func (r *Registrar) SetMenuPositions(ctx context.Context, positions map[string]int) error {
	if len(positions) == 0 {
		return nil
	}

	keys := make([]string, 0, len(positions))
	for key := range positions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	ids, err := r.ids.load(ctx, keys)
	if err != nil {
		return fmt.Errorf("load page mappings: %w", err)
	}

	var failures []error
	for _, key := range keys {
		id := ids[key]
		if id <= 0 {
			failures = append(failures, fmt.Errorf("%w: no record for key %q", ErrNotFound, key))
			continue
		}
		rec, err := r.content.Fetch(ctx, id)
		if err != nil {
			failures = append(failures, fmt.Errorf("fetch %q: %w", key, err))
			continue
		}
		if rec == nil {
			failures = append(failures, fmt.Errorf("%w: record %d for key %q is gone", ErrNotFound, id, key))
			continue
		}
		attrs := attrsFromRecord(rec)
		attrs.MenuOrder = positions[key]
		if _, err := r.content.Update(ctx, id, attrs); err != nil {
			failures = append(failures, fmt.Errorf("update %q: %w", key, err))
			continue
		}
		r.log.Debug().Str("key", key).Int64("record_id", id).
			Int("menu_order", positions[key]).Msg("menu position set")
	}

	if len(failures) > 0 {
		return errors.Join(append([]error{ErrUpdateFailed}, failures...)...)
	}
	return nil
}

// Uninstall deletes every tracked record and clears all persisted state:
// the mapping, the install-state guard and any backup snapshot. permanent is
// passed through to the content store; with it unset, stores that support
// soft deletion keep the records recoverable. Record deletion failures are
// collected and reported, but state clearing proceeds regardless.
func (r *Registrar) Uninstall(ctx context.Context, permanent bool) error {
	ids, err := r.ids.loadAll(ctx, r.order)
	if err != nil {
		return fmt.Errorf("load page mappings: %w", err)
	}

	keys := make([]string, 0, len(ids))
	for key := range ids {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var failures []error
	for _, key := range keys {
		if err := r.content.Delete(ctx, ids[key], permanent); err != nil {
			failures = append(failures, fmt.Errorf("delete %q: %w", key, err))
			r.log.Warn().Err(err).Str("key", key).Int64("record_id", ids[key]).
				Msg("record not deleted")
		}
	}

	if err := r.ids.clear(ctx, keys); err != nil {
		failures = append(failures, fmt.Errorf("clear mapping: %w", err))
	}
	if err := r.settings.Delete(ctx, r.stateOption); err != nil {
		failures = append(failures, fmt.Errorf("clear install state: %w", err))
	}
	if err := r.settings.Delete(ctx, r.backupOption); err != nil {
		failures = append(failures, fmt.Errorf("clear backup: %w", err))
	}

	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	r.log.Debug().Bool("permanent", permanent).Int("records", len(keys)).
		Msg("uninstalled")
	return nil
}

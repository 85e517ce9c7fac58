package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// UpdatePolicy decides whether an existing live record is rewritten during a
// reconciliation pass. existing is the live record, desired the attributes
// the current declaration would produce, stored/current the version pair from
// the install-state guard and the configuration.
type UpdatePolicy func(existing *Record, desired RecordAttrs, storedVersion, currentVersion string) bool

// UpdateNever leaves existing records alone. This is the default policy.
func UpdateNever(*Record, RecordAttrs, string, string) bool {
	return false
}

// UpdateOnVersionBump rewrites existing records when the stored install
// version is older than the configured one.
func UpdateOnVersionBump(_ *Record, _ RecordAttrs, stored, current string) bool {
	return current != "" && compareVersions(stored, current) < 0
}

// UpdateOnChange rewrites existing records whose title, content or status
// drifted from the declaration.
func UpdateOnChange(existing *Record, desired RecordAttrs, _, _ string) bool {
	return existing.Title != desired.Title ||
		existing.Content != desired.Content ||
		existing.Status != desired.Status
}

// installState is the persisted version guard.
type installState struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
}

func (r *Registrar) readState(ctx context.Context) installState {
	var st installState
	if err := r.settings.Get(ctx, r.stateOption, &st); err != nil {
		if !errors.Is(err, ErrNotFound) {
			// An unreadable guard means "not installed": the pass it
			// triggers is idempotent, so the safe answer is to rerun.
			r.log.Warn().Err(err).Msg("install state unreadable")
		}
		return installState{}
	}
	return st
}

func (r *Registrar) guardSatisfied(st installState) bool {
	if !st.Installed {
		return false
	}
	if r.cfg.Version == "" {
		return true
	}
	return compareVersions(st.Version, r.cfg.Version) >= 0
}

// IsInstalled reports whether a prior install pass already satisfied the
// current version, meaning Install would return without touching the content
// store.
func (r *Registrar) IsInstalled(ctx context.Context) bool {
	return r.guardSatisfied(r.readState(ctx))
}

// ForceReinstall clears the install-state guard only. Existing records and
// stored mappings stay; the next Install re-runs reconciliation and will find
// them unless they were deleted externally.
func (r *Registrar) ForceReinstall(ctx context.Context) error {
	return r.settings.Delete(ctx, r.stateOption)
}

// Install reconciles every declared page against the content store and
// returns the key→record-ID mapping for the pages that resolved.
//
// When the version guard is already satisfied the stored mapping is returned
// without any content-store call. Otherwise pages are processed in
// declaration order: a stored ID that still resolves to a live record keeps
// it (optionally rewritten per the update policy); a record that is verified
// gone is created anew. A failing store call skips that page and the pass
// continues: the key is absent from the result, and a page whose record
// lookup failed keeps its stored mapping entry. Calling Install again with
// nothing changed returns the same mapping and creates nothing.
func (r *Registrar) Install(ctx context.Context) (map[string]int64, error) {
	st := r.readState(ctx)
	if r.guardSatisfied(st) {
		r.log.Debug().Str("version", st.Version).Msg("install pass already satisfied")
		return r.ids.load(ctx, r.order)
	}

	stored, err := r.ids.load(ctx, r.order)
	if err != nil {
		return nil, fmt.Errorf("load page mappings: %w", err)
	}

	resolved := make(map[string]int64, len(r.order))
	preserved := make(map[string]int64)
	labels := make(map[string]string, len(r.order))
	changed := false

	for _, key := range r.order {
		attrs := r.attrs[key]
		labels[key] = attrs.Title

		// A parent key with no resolved ID yet falls back to 0 and is
		// never retried; declare parents before their children.
		if attrs.ParentKey != "" {
			attrs.Parent = resolved[attrs.ParentKey]
			attrs.ParentKey = ""
		}
		if attrs.AuthorID == 0 && r.cfg.ResolveAuthor != nil {
			attrs.AuthorID = r.cfg.ResolveAuthor(ctx)
		}

		if id := stored[key]; id > 0 {
			rec, ferr := r.content.Fetch(ctx, id)
			if ferr != nil {
				// An unverifiable record is never recreated; the page
				// is skipped and its mapping entry kept for the next
				// pass.
				preserved[key] = id
				r.log.Warn().Err(ferr).Str("key", key).Int64("record_id", id).
					Msg("record lookup failed, page skipped")
				continue
			}
			if rec != nil {
				resolved[key] = id
				if r.policy(rec, attrs, st.Version, r.cfg.Version) {
					if _, uerr := r.content.Update(ctx, id, attrs); uerr != nil {
						r.log.Warn().Err(errors.Join(ErrUpdateFailed, uerr)).
							Str("key", key).Int64("record_id", id).
							Msg("existing record kept unchanged")
					} else {
						changed = true
						r.log.Debug().Str("key", key).Int64("record_id", id).
							Str("state", "updated").Msg("page record rewritten")
					}
				} else {
					r.log.Debug().Str("key", key).Int64("record_id", id).
						Str("state", "existing").Msg("page record verified")
				}
				continue
			}
		}

		id, cerr := r.content.Create(ctx, attrs)
		if cerr != nil {
			r.log.Warn().Err(errors.Join(ErrCreateFailed, cerr)).
				Str("key", key).Msg("page skipped")
			continue
		}
		resolved[key] = id
		changed = true
		r.log.Debug().Str("key", key).Int64("record_id", id).
			Str("state", "created").Msg("page record created")
	}

	if changed {
		mapping := resolved
		if len(preserved) > 0 {
			mapping = make(map[string]int64, len(resolved)+len(preserved))
			for key, id := range resolved {
				mapping[key] = id
			}
			for key, id := range preserved {
				mapping[key] = id
			}
		}
		if err := r.ids.save(ctx, mapping, labels); err != nil {
			return resolved, fmt.Errorf("persist page mappings: %w", err)
		}
		st := installState{Installed: true, Version: r.cfg.Version}
		if err := r.settings.Set(ctx, r.stateOption, st); err != nil {
			return resolved, fmt.Errorf("persist install state: %w", err)
		}
	}

	return resolved, nil
}

// compareVersions compares dotted version strings segment by segment,
// numerically where both segments parse as integers and lexically otherwise.
// Missing segments count as zero, so "1.0" equals "1.0.0".
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		sa, sb := "0", "0"
		if i < len(as) && as[i] != "" {
			sa = as[i]
		}
		if i < len(bs) && bs[i] != "" {
			sb = bs[i]
		}
		na, errA := strconv.Atoi(sa)
		nb, errB := strconv.Atoi(sb)
		if errA == nil && errB == nil {
			if na != nb {
				if na < nb {
					return -1
				}
				return 1
			}
			continue
		}
		if sa != sb {
			if sa < sb {
				return -1
			}
			return 1
		}
	}
	return 0
}

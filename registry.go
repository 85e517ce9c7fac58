package pages

import "fmt"

// Declare validates and registers one page under key. The page is translated
// to native attributes immediately; nothing touches the content store until
// Install runs. Re-declaring a key overwrites the earlier declaration in
// place, keeping its original position in install order.
func (r *Registrar) Declare(key string, p Page) error {
	if !IsValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	attrs, err := prepareAttrs(p, r.cfg.Defaults, r.cfg.AllowEmptyContent)
	if err != nil {
		return fmt.Errorf("page %q: %w", key, err)
	}

	if _, exists := r.attrs[key]; !exists {
		r.order = append(r.order, key)
	}
	r.attrs[key] = attrs

	r.log.Debug().Str("key", key).Str("title", attrs.Title).Msg("page declared")
	return nil
}

// DeclareMany registers a batch of pages, each carrying its own Key. Entries
// succeed or fail independently; a bad entry never aborts the batch. Returns
// the failures by key, nil when every entry was accepted.
func (r *Registrar) DeclareMany(pgs []Page) map[string]error {
	var failed map[string]error
	for _, p := range pgs {
		if err := r.Declare(p.Key, p); err != nil {
			if failed == nil {
				failed = make(map[string]error)
			}
			failed[p.Key] = err
			r.log.Warn().Err(err).Str("key", p.Key).Msg("page declaration rejected")
		}
	}
	return failed
}

// Declared returns the declared keys in install order.
func (r *Registrar) Declared() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of declared pages.
func (r *Registrar) Len() int {
	return len(r.order)
}

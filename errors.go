package pages

import (
	"errors"
	"fmt"
)

// Registration and store errors
var (
	// ErrInvalidKey means a page key contains characters outside [a-z0-9_-]
	// or is empty. Keys are never coerced into shape.
	ErrInvalidKey = errors.New("invalid page key")

	// ErrMissingField means a required page attribute is absent after
	// defaults were merged. ErrMissingTitle and ErrMissingContent wrap it.
	ErrMissingField   = errors.New("missing required field")
	ErrMissingTitle   = fmt.Errorf("%w: title", ErrMissingField)
	ErrMissingContent = fmt.Errorf("%w: content", ErrMissingField)

	// ErrTemplateNotFound means AddPageFromTemplate referenced an
	// unregistered template name.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrNoBackup means Restore was called before any snapshot was taken.
	ErrNoBackup = errors.New("no backup snapshot found")

	// ErrNotFound is returned by settings stores when a name has never
	// been stored, and by lookup helpers for unknown page keys.
	ErrNotFound = errors.New("not found")

	// Collaborator failures, wrapped around the store's error detail.
	ErrCreateFailed = errors.New("record create failed")
	ErrUpdateFailed = errors.New("record update failed")
)

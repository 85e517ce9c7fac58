package pages

import (
	"regexp"
)

// Status is the publishing state of a page record.
type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPrivate   Status = "private"
)

// Page is the simplified schema callers declare. The registrar translates it
// into the host's native RecordAttrs at declare time.
type Page struct {
	// Key is the stable logical identifier, independent of the record's
	// storage ID. Declare overrides it with its key argument; DeclareMany
	// entries must carry it. Must match [a-z0-9_-]+.
	Key string `json:"key"`

	Title   string `json:"title"`
	Content string `json:"content"`

	// Status defaults to StatusPublished.
	Status Status `json:"status,omitempty"`

	// Type is the record type, default "page".
	Type string `json:"type,omitempty"`

	// AuthorID 0 means "resolve via Config.ResolveAuthor at install time".
	AuthorID int64 `json:"author_id,omitempty"`

	Comments  bool `json:"comments,omitempty"`
	Pingbacks bool `json:"pingbacks,omitempty"`

	// ParentID points at an existing record. ParentKey references another
	// declared page by key and is resolved during install; it wins when
	// both are set. A parent key that has no resolved record ID by the
	// time this page installs falls back to parent 0 and is not retried.
	ParentID  int64  `json:"parent_id,omitempty"`
	ParentKey string `json:"parent_key,omitempty"`

	MenuOrder int `json:"menu_order,omitempty"`
}

var keyPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

// IsValidKey reports whether key is non-empty and contains only lowercase
// letters, digits, underscores and hyphens.
func IsValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

// AttributeDefaults carries native-schema attribute defaults applied to every
// declared page. Recognized names: post_title, post_content, post_status,
// post_type, post_author, post_parent, menu_order, comments, pingbacks.
// Unrecognized names are kept as record metadata. Defaults fill only fields a
// page left at their zero value.
type AttributeDefaults map[string]any

// RecordAttrs is the native attribute set handed to a ContentStore.
type RecordAttrs struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Status    Status `json:"status"`
	Type      string `json:"type"`
	AuthorID  int64  `json:"author_id"`
	Parent    int64  `json:"parent"`
	MenuOrder int    `json:"menu_order"`
	Comments  bool   `json:"comments"`
	Pingbacks bool   `json:"pingbacks"`

	// ParentKey is an unresolved logical parent reference. The installer
	// resolves it into Parent and clears it before attrs reach a store;
	// store implementations can ignore it.
	ParentKey string `json:"-"`

	// Meta holds unrecognized attribute defaults, persisted as record
	// metadata on create.
	Meta map[string]any `json:"meta,omitempty"`
}

// prepareAttrs translates a declared Page into native RecordAttrs.
//
// Field mapping: title→post_title, content→post_content, status→post_status,
// type→post_type, author→post_author, parent→post_parent,
// menuOrder→menu_order. Defaults fill fields the page left at their zero
// value; unrecognized default names ride along as metadata. An empty title
// always fails; an empty content fails unless allowEmptyContent is set.
func prepareAttrs(p Page, defaults AttributeDefaults, allowEmptyContent bool) (RecordAttrs, error) {
	attrs := RecordAttrs{
		Title:     p.Title,
		Content:   p.Content,
		Status:    p.Status,
		Type:      p.Type,
		AuthorID:  p.AuthorID,
		Parent:    p.ParentID,
		ParentKey: p.ParentKey,
		MenuOrder: p.MenuOrder,
		Comments:  p.Comments,
		Pingbacks: p.Pingbacks,
	}

	for name, value := range defaults {
		switch name {
		case "post_title":
			if attrs.Title == "" {
				attrs.Title = asString(value)
			}
		case "post_content":
			if attrs.Content == "" {
				attrs.Content = asString(value)
			}
		case "post_status":
			if attrs.Status == "" {
				attrs.Status = Status(asString(value))
			}
		case "post_type":
			if attrs.Type == "" {
				attrs.Type = asString(value)
			}
		case "post_author":
			if attrs.AuthorID == 0 {
				attrs.AuthorID, _ = asInt64(value)
			}
		case "post_parent":
			if attrs.Parent == 0 && attrs.ParentKey == "" {
				attrs.Parent, _ = asInt64(value)
			}
		case "menu_order":
			if attrs.MenuOrder == 0 {
				n, _ := asInt64(value)
				attrs.MenuOrder = int(n)
			}
		case "comments":
			if !attrs.Comments {
				attrs.Comments = asBool(value)
			}
		case "pingbacks":
			if !attrs.Pingbacks {
				attrs.Pingbacks = asBool(value)
			}
		default:
			if attrs.Meta == nil {
				attrs.Meta = make(map[string]any)
			}
			attrs.Meta[name] = value
		}
	}

	if attrs.Status == "" {
		attrs.Status = StatusPublished
	}
	if attrs.Type == "" {
		attrs.Type = "page"
	}

	if attrs.Title == "" {
		return RecordAttrs{}, ErrMissingTitle
	}
	if attrs.Content == "" && !allowEmptyContent {
		return RecordAttrs{}, ErrMissingContent
	}

	return attrs, nil
}

// attrsFromRecord rebuilds native attrs from a live record, for updates that
// change a single field without clobbering the rest. Meta stays nil: updates
// never touch metadata.
func attrsFromRecord(rec *Record) RecordAttrs {
	return RecordAttrs{
		Title:     rec.Title,
		Content:   rec.Content,
		Status:    rec.Status,
		Type:      rec.Type,
		AuthorID:  rec.AuthorID,
		Parent:    rec.Parent,
		MenuOrder: rec.MenuOrder,
		Comments:  rec.Comments,
		Pingbacks: rec.Pingbacks,
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case Status:
		return string(s)
	}
	return ""
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func asBool(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

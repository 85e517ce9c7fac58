package pages

import (
	"fmt"
	"strings"
)

// Template is a reusable page shape whose Title and Content may contain
// literal placeholder tokens such as {{name}}. The Key field is ignored on
// templates; keys come from AddPageFromTemplate.
type Template Page

// AddTemplate registers a named template. Registering the same name again
// overwrites the earlier shape.
func (r *Registrar) AddTemplate(name string, tpl Template) {
	r.templates[name] = tpl
}

// AddPageFromTemplate expands the named template with the given replacements
// and declares the result under key. Replacement map keys are matched as
// literal substrings (including their braces) against the template's Title
// and Content only; all pairs are applied in a single pass, so replacement
// values are never re-scanned for further placeholders.
func (r *Registrar) AddPageFromTemplate(key, name string, replacements map[string]string) error {
	tpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	p := Page(tpl)
	p.Key = key
	if len(replacements) > 0 {
		pairs := make([]string, 0, len(replacements)*2)
		for token, value := range replacements {
			pairs = append(pairs, token, value)
		}
		rep := strings.NewReplacer(pairs...)
		p.Title = rep.Replace(p.Title)
		p.Content = rep.Replace(p.Content)
	}

	return r.Declare(key, p)
}

package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddPageFromTemplate_Substitution(t *testing.T) {
	r := newTestRegistrar(Config{})
	r.AddTemplate("legal", Template{
		Title:   "{{company}} Terms",
		Content: "Contact {{company}} at {{email}}.",
		Status:  StatusPrivate,
	})

	err := r.AddPageFromTemplate("terms", "legal", map[string]string{
		"{{company}}": "Damoang",
		"{{email}}":   "help@damoang.net",
	})

	assert.NoError(t, err)
	attrs := r.attrs["terms"]
	assert.Equal(t, "Damoang Terms", attrs.Title)
	assert.Equal(t, "Contact Damoang at help@damoang.net.", attrs.Content)
	assert.Equal(t, StatusPrivate, attrs.Status)
}

func TestAddPageFromTemplate_UnknownTemplate(t *testing.T) {
	r := newTestRegistrar(Config{})

	err := r.AddPageFromTemplate("terms", "missing", nil)

	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Zero(t, r.Len())
}

func TestAddPageFromTemplate_NoRecursiveSubstitution(t *testing.T) {
	r := newTestRegistrar(Config{})
	r.AddTemplate("tpl", Template{Title: "T", Content: "{{a}} {{b}}"})

	// {{a}} expands to a string containing {{b}}; that output must not be
	// scanned again.
	err := r.AddPageFromTemplate("page", "tpl", map[string]string{
		"{{a}}": "{{b}}",
		"{{b}}": "done",
	})

	assert.NoError(t, err)
	assert.Equal(t, "{{b}} done", r.attrs["page"].Content)
}

func TestAddPageFromTemplate_UntouchedPlaceholdersRemain(t *testing.T) {
	r := newTestRegistrar(Config{})
	r.AddTemplate("tpl", Template{Title: "T", Content: "Hello {{name}}, {{unused}}"})

	err := r.AddPageFromTemplate("page", "tpl", map[string]string{"{{name}}": "World"})

	assert.NoError(t, err)
	assert.Equal(t, "Hello World, {{unused}}", r.attrs["page"].Content)
}

func TestAddTemplate_SameNameOverwrites(t *testing.T) {
	r := newTestRegistrar(Config{})
	r.AddTemplate("tpl", Template{Title: "First", Content: "x"})
	r.AddTemplate("tpl", Template{Title: "Second", Content: "x"})

	err := r.AddPageFromTemplate("page", "tpl", nil)

	assert.NoError(t, err)
	assert.Equal(t, "Second", r.attrs["page"].Title)
}

func TestAddPageFromTemplate_InvalidKeyRejected(t *testing.T) {
	r := newTestRegistrar(Config{})
	r.AddTemplate("tpl", Template{Title: "T", Content: "x"})

	err := r.AddPageFromTemplate("Bad Key", "tpl", nil)

	assert.ErrorIs(t, err, ErrInvalidKey)
}

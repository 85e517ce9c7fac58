package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRegistrar(cfg Config) *Registrar {
	return New(new(mockContentStore), newMemSettings(), "wp_", cfg)
}

func TestDeclare_InvalidKey(t *testing.T) {
	r := newTestRegistrar(Config{})

	err := r.Declare("About Us", Page{Title: "About", Content: "x"})

	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.Zero(t, r.Len())
}

func TestDeclare_InvalidPage(t *testing.T) {
	r := newTestRegistrar(Config{})

	err := r.Declare("about", Page{Content: "x"})

	assert.ErrorIs(t, err, ErrMissingTitle)
	assert.Zero(t, r.Len())
}

func TestDeclare_OverwriteKeepsOrder(t *testing.T) {
	r := newTestRegistrar(Config{})

	assert.NoError(t, r.Declare("about", Page{Title: "About", Content: "x"}))
	assert.NoError(t, r.Declare("terms", Page{Title: "Terms", Content: "x"}))
	assert.NoError(t, r.Declare("about", Page{Title: "About v2", Content: "y"}))

	assert.Equal(t, []string{"about", "terms"}, r.Declared())
	assert.Equal(t, "About v2", r.attrs["about"].Title)
	assert.Equal(t, 2, r.Len())
}

func TestDeclareMany_CollectsFailures(t *testing.T) {
	r := newTestRegistrar(Config{})

	failed := r.DeclareMany([]Page{
		{Key: "about", Title: "About", Content: "x"},
		{Key: "Bad Key", Title: "Broken", Content: "x"},
		{Key: "terms", Title: "Terms", Content: "x"},
	})

	assert.Len(t, failed, 1)
	assert.ErrorIs(t, failed["Bad Key"], ErrInvalidKey)
	assert.Equal(t, []string{"about", "terms"}, r.Declared())
}

func TestDeclareMany_AllValid(t *testing.T) {
	r := newTestRegistrar(Config{})

	failed := r.DeclareMany([]Page{
		{Key: "about", Title: "About", Content: "x"},
		{Key: "terms", Title: "Terms", Content: "x"},
	})

	assert.Nil(t, failed)
	assert.Equal(t, 2, r.Len())
}

func TestDeclared_ReturnsCopy(t *testing.T) {
	r := newTestRegistrar(Config{})
	assert.NoError(t, r.Declare("about", Page{Title: "About", Content: "x"}))

	keys := r.Declared()
	keys[0] = "mutated"

	assert.Equal(t, []string{"about"}, r.Declared())
}

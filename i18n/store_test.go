// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, files map[string]string) *Store {
	t.Helper()

	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}

	return NewStore(fsys, zerolog.Nop())
}

func TestLoadTable(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string]string{
		"en.json": `{"greeting": "Hello", "farewell": "Goodbye"}`,
		"hi.json": `{"greeting": "नमस्ते"}`,
	})

	en := store.LoadTable("en")
	require.NotNil(t, en)
	assert.Equal(t, "Hello", en["greeting"])

	hi := store.LoadTable("hi")
	require.NotNil(t, hi)
	assert.Equal(t, "नमस्ते", hi["greeting"])
}

func TestLoadTableFallsBackToDefault(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string]string{
		"en.json": `{"greeting": "Hello"}`,
	})

	// No catalog for "ta": falls back to the default locale's content.
	ta := store.LoadTable("ta")
	require.NotNil(t, ta)
	assert.Equal(t, "Hello", ta["greeting"])

	// Same for a locale outside the supported set entirely.
	xx := store.LoadTable("xx")
	require.NotNil(t, xx)
	assert.Equal(t, "Hello", xx["greeting"])
}

func TestLoadTableMalformedCatalog(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string]string{
		"en.json": `{"greeting": "Hello"}`,
		"hi.json": `{not valid json`,
	})

	// Malformed catalog behaves like a missing one.
	hi := store.LoadTable("hi")
	assert.Equal(t, "Hello", hi["greeting"])
}

func TestLoadTableEverythingMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, nil)

	table := store.LoadTable("hi")
	require.NotNil(t, table)
	assert.Empty(t, table)
}

func TestLoadTableIdempotent(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string]string{
		"en.json": `{"greeting": "Hello"}`,
	})

	first := store.LoadTable("en")
	second := store.LoadTable("en")

	assert.Equal(t, first, second)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string]string{
		"en.json": `{"greeting": "Hello"}`,
		"hi.json": `{"greeting": "नमस्ते"}`,
	})

	assert.Equal(t, "नमस्ते", store.Translate("greeting", "hi"))
	assert.Equal(t, "Hello", store.Translate("greeting", "en"))

	// A missing key returns the key itself, for every locale including default.
	assert.Equal(t, "missing_key", store.Translate("missing_key", "hi"))
	assert.Equal(t, "missing_key", store.Translate("missing_key", "en"))
}

func TestAllTranslations(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, map[string]string{
		"en.json": `{"a": "1", "b": "2"}`,
	})

	table := store.AllTranslations("en")
	assert.Len(t, table, 2)
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"encoding/json"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
)

// TranslationTable is the full key-to-string mapping for one locale.
//
// Tables are never mutated after load; callers must treat them as read-only.
type TranslationTable map[string]string

// Store loads per-locale JSON catalogs from a backing filesystem and caches
// them for the process lifetime.
//
// The zero value is not usable; construct with NewStore. A Store is safe for
// concurrent use: the cache is append-only and racing first loads of the same
// locale are benign since both loads yield equivalent content.
type Store struct {
	fsys fs.FS

	mu     sync.RWMutex
	tables map[string]TranslationTable

	logger zerolog.Logger
}

// NewStore creates a Store backed by fsys, which must contain one
// "<locale>.json" file per catalog.
func NewStore(fsys fs.FS, logger zerolog.Logger) *Store {
	return &Store{
		fsys:   fsys,
		tables: make(map[string]TranslationTable),
		logger: logger,
	}
}

// LoadTable returns the translation table for locale.
//
// On a cache miss the backing catalog is read; if it is absent or malformed
// the default locale's catalog is used instead, and if that also fails an
// empty table is returned. Successful loads (including fallbacks) are cached
// under the requested locale; the empty-table failure case is not cached, so
// subsequent calls retry the read.
func (s *Store) LoadTable(locale string) TranslationTable {
	s.mu.RLock()
	table, ok := s.tables[locale]
	s.mu.RUnlock()

	if ok {
		return table
	}

	table, err := s.read(locale)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("locale", locale).
			Msg("Catalog unavailable, falling back to default locale")

		table, err = s.read(DefaultLocale)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("locale", DefaultLocale).
				Msg("Default catalog unavailable")

			// Not cached: the next call retries the load.
			return TranslationTable{}
		}
	}

	s.mu.Lock()
	// A concurrent loader may have won the race; last write wins, both
	// loads are equivalent.
	s.tables[locale] = table
	s.mu.Unlock()

	return table
}

// Translate returns the localized string for key in locale's table, or key
// verbatim when no translation exists. It never fails.
func (s *Store) Translate(key, locale string) string {
	if v, ok := s.LoadTable(locale)[key]; ok {
		return v
	}

	return key
}

// AllTranslations returns the full table for locale, used to hydrate the
// client-side UI in one round trip.
func (s *Store) AllTranslations(locale string) TranslationTable {
	return s.LoadTable(locale)
}

func (s *Store) read(locale string) (TranslationTable, error) {
	raw, err := fs.ReadFile(s.fsys, locale+".json")
	if err != nil {
		return nil, err
	}

	var table TranslationTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, err
	}

	return table, nil
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/cropdoctor/cropdoctor/server/assets"
)

// translationsDir is the embedded directory holding "<locale>.json" catalogs.
const translationsDir = "assets/translations"

var (
	// Logger is the logger used by package i18n.
	Logger zerolog.Logger

	// defaultStore backs the package-level translation helpers. Set by Setup.
	defaultStore *Store

	// DefaultResolver is the resolver used by the request-context middleware.
	// Built by Setup; main attaches the geolocation client afterwards. Tests
	// construct their own Resolver instances.
	DefaultResolver *Resolver
)

// Setup initializes package i18n from the embedded assets.
//
// It builds the default Store over the embedded translations directory and
// warns about supported locales with no catalog file (those fall back to the
// default locale at load time). Calling Setup again replaces the previously
// loaded store and drops its cache.
func Setup() error {
	Logger = log.With().Str("sys", "i18n").Logger()

	fsys, err := fs.Sub(assets.FS, translationsDir)
	if err != nil {
		return fmt.Errorf("failed to open translations directory: %w", err)
	}

	// The default catalog must exist; everything else degrades.
	if _, err := fs.Stat(fsys, DefaultLocale+".json"); err != nil {
		return fmt.Errorf("default locale catalog missing: %w", err)
	}

	for _, code := range SupportedCodes() {
		if _, err := fs.Stat(fsys, code+".json"); err != nil {
			Logger.Warn().
				Str("locale", code).
				Msg("No catalog for supported locale, will fall back to default")

			continue
		}

		Logger.Info().
			Str("locale", code).
			Msg("Found catalog for locale")
	}

	defaultStore = NewStore(fsys, Logger)
	DefaultResolver = &Resolver{Logger: Logger}

	return nil
}

// Translate resolves key in locale's catalog via the default store.
// Before Setup it returns key unchanged.
func Translate(key, locale string) string {
	if defaultStore == nil {
		return key
	}

	return defaultStore.Translate(key, locale)
}

// AllTranslations returns locale's full table via the default store.
// Before Setup it returns an empty table.
func AllTranslations(locale string) TranslationTable {
	if defaultStore == nil {
		return TranslationTable{}
	}

	return defaultStore.AllTranslations(locale)
}

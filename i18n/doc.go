// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n provides the locale catalog, translation delivery and
per-request language resolution for the application.

# Locale catalog

The set of supported UI languages is fixed (see SupportedLanguages), as is
the mapping from Indian administrative regions to default languages
(RegionLanguageMap). Any locale code outside the supported set is silently
normalized to DefaultLocale by callers.

# Translation delivery

UI strings live in per-locale JSON catalogs ("en.json", "hi.json", ...)
embedded into the binary. A Store loads each catalog lazily on first use and
caches it for the process lifetime. Lookups never fail: a missing key
resolves to the key itself, a missing or malformed catalog falls back to the
default locale's catalog, and if even that cannot be read an empty table is
returned.

Disease and crop vocabulary is translated separately through hand-authored
lexicons (TranslateDiseaseName); untranslated terms pass through unchanged.

# Language resolution

A Resolver computes the effective locale for a request by evaluating, in
strict precedence order:

 1. the language preference cookie (set via Resolver.SetPreference)
 2. the "lang" query parameter
 3. geolocation of the client address (best-effort, short timeout)
 4. the Accept-Language header
 5. DefaultLocale

The resolved code is installed in the request context by the
request-context middleware; handlers read it back with LocaleFrom.
*/
package i18n

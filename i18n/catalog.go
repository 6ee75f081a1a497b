// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "sort"

// DefaultLocale is the locale used when no signal resolves to a supported language.
const DefaultLocale = "en"

// GeoCountry is the only country for which geolocation-based resolution applies.
const GeoCountry = "India"

// GeoFallbackLocale is used when geolocation places the client in GeoCountry
// but the administrative region has no entry in RegionLanguageMap.
const GeoFallbackLocale = "hi"

// SupportedLanguages maps each supported locale code to its native display name.
//
// The set is process-wide static configuration and is never mutated at runtime.
var SupportedLanguages = map[string]string{
	"en": "English",
	"hi": "हिन्दी (Hindi)",
	"mr": "मराठी (Marathi)",
	"ta": "தமிழ் (Tamil)",
	"te": "తెలుగు (Telugu)",
	"bn": "বাংলা (Bengali)",
}

// RegionLanguageMap maps ISO 3166-2:IN region codes to default locale codes.
//
// NOTE: IN-KA maps to "kn" (Kannada), which has no catalog; the resolver
// normalizes unsupported mapped codes to DefaultLocale.
var RegionLanguageMap = map[string]string{
	"IN-MH": "mr", // Maharashtra - Marathi
	"IN-KA": "kn", // Karnataka - Kannada
	"IN-TN": "ta", // Tamil Nadu - Tamil
	"IN-AP": "te", // Andhra Pradesh - Telugu
	"IN-TS": "te", // Telangana - Telugu
	"IN-WB": "bn", // West Bengal - Bengali
	"IN-BR": "hi", // Bihar - Hindi
	"IN-UP": "hi", // Uttar Pradesh - Hindi
	"IN-HR": "hi", // Haryana - Hindi
}

// IsSupported reports whether code is a member of the supported locale set.
func IsSupported(code string) bool {
	_, ok := SupportedLanguages[code]

	return ok
}

// LanguageName returns the native display name for a supported locale code,
// or the code itself for an unsupported one.
func LanguageName(code string) string {
	if name, ok := SupportedLanguages[code]; ok {
		return name
	}

	return code
}

// SupportedCodes returns the supported locale codes sorted lexicographically.
//
// The returned slice is a fresh copy and is safe to retain.
func SupportedCodes() []string {
	out := make([]string, 0, len(SupportedLanguages))
	for code := range SupportedLanguages {
		out = append(out, code)
	}

	sort.Strings(out)

	return out
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"codeberg.org/cropdoctor/cropdoctor/i18n"
	"codeberg.org/cropdoctor/cropdoctor/server/request_context"
)

// CurrentLanguage reports the effective locale for this request and the
// supported-locale list.
func CurrentLanguage(w http.ResponseWriter, r *http.Request) error {
	locale := request_context.FromRequest(r).Locale

	return writeJSON(w, http.StatusOK, map[string]any{
		"language":      locale,
		"language_name": i18n.LanguageName(locale),
		"supported":     i18n.SupportedLanguages,
	})
}

type setLanguageRequest struct {
	Language string `json:"language"`
}

// SetLanguage stores an explicit language preference.
//
// An unsupported code is a client error and leaves any existing preference
// untouched.
func SetLanguage(w http.ResponseWriter, r *http.Request) error {
	var req setLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request body")
	}

	if req.Language == "" {
		return writeError(w, http.StatusBadRequest, "language is required")
	}

	if err := i18n.DefaultResolver.SetPreference(w, r, req.Language); err != nil {
		if errors.Is(err, i18n.ErrUnsupportedLocale) {
			return writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"message": fmt.Sprintf("unsupported language code: %s", req.Language),
			})
		}

		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"language": req.Language,
		"message":  fmt.Sprintf("language set to %s", i18n.LanguageName(req.Language)),
	})
}

// DetectLanguage runs locale inference while ignoring any explicit
// preference, exposing what a first-time visitor would get.
func DetectLanguage(w http.ResponseWriter, r *http.Request) error {
	detected := i18n.DefaultResolver.Detect(r)

	return writeJSON(w, http.StatusOK, map[string]any{
		"detected_language": detected,
		"language_name":     i18n.LanguageName(detected),
	})
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/cropdoctor/cropdoctor/i18n"
	"codeberg.org/cropdoctor/cropdoctor/server/request_context"
	"codeberg.org/cropdoctor/cropdoctor/server/utils"
)

// Translations returns the full translation table for the requested locale,
// hydrating the client-side UI in one round trip.
//
// An explicit ?lang= wins over the resolved locale so the UI can preview a
// language before committing to it.
func Translations(w http.ResponseWriter, r *http.Request) error {
	locale := utils.GetQueryParam(r, i18n.LangParam, request_context.FromRequest(r).Locale)

	return writeJSON(w, http.StatusOK, map[string]any{
		"language":     locale,
		"translations": i18n.AllTranslations(locale),
	})
}

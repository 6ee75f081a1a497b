// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/cropdoctor/cropdoctor/core/history"
)

// History lists the most recent stored predictions, newest first.
func History(w http.ResponseWriter, r *http.Request) error {
	if history.DefaultStore == nil {
		return writeError(w, http.StatusServiceUnavailable, "prediction history is not configured")
	}

	predictions, err := history.DefaultStore.Recent(r.Context())
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{"history": predictions})
}

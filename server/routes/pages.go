// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/cropdoctor/cropdoctor/server/assets"
)

// The bundled UI is a handful of static pages; all dynamic content comes
// from the JSON API, localized client-side via /api/translations.

func servePage(w http.ResponseWriter, r *http.Request, name string) error {
	page, err := assets.FS.ReadFile("assets/web/" + name)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err = w.Write(page)

	return err
}

func IndexPage(w http.ResponseWriter, r *http.Request) error {
	return servePage(w, r, "index.html")
}

func HistoryPage(w http.ResponseWriter, r *http.Request) error {
	return servePage(w, r, "history.html")
}

func GuidePage(w http.ResponseWriter, r *http.Request) error {
	return servePage(w, r, "guide.html")
}

func ToolsPage(w http.ResponseWriter, r *http.Request) error {
	return servePage(w, r, "tools.html")
}

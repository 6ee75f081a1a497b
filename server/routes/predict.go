// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/cropdoctor/cropdoctor/config"
	"codeberg.org/cropdoctor/cropdoctor/core/classify"
	"codeberg.org/cropdoctor/cropdoctor/core/history"
	"codeberg.org/cropdoctor/cropdoctor/i18n"
	"codeberg.org/cropdoctor/cropdoctor/server/request_context"
)

// Predict classifies an uploaded leaf photo.
//
// The prediction is recorded in the history store when one is configured; a
// failed write never fails the request.
func Predict(w http.ResponseWriter, r *http.Request) error {
	if classify.DefaultClient == nil {
		return writeError(w, http.StatusInternalServerError, "classifier not configured")
	}

	if err := r.ParseMultipartForm(config.Global.Classifier.MaxUploadBytes); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid multipart form")
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return writeError(w, http.StatusBadRequest, "no image file provided")
	}
	defer file.Close()

	if header.Filename == "" {
		return writeError(w, http.StatusBadRequest, "no selected file")
	}

	ctx, cancel := context.WithTimeout(r.Context(), config.Global.Classifier.Timeout)
	defer cancel()

	prediction, err := classify.DefaultClient.Classify(ctx, file)
	if err != nil {
		return err
	}

	if history.DefaultStore != nil {
		if err := history.DefaultStore.Add(r.Context(), history.Prediction{
			Filename:   header.Filename,
			Class:      prediction.Class,
			Confidence: prediction.Confidence,
		}); err != nil {
			log.Err(err).
				Str("class", prediction.Class).
				Msg("Failed to record prediction history")
		}
	}

	locale := request_context.FromRequest(r).Locale
	displayName := strings.ReplaceAll(prediction.Class, "_", " ")

	return writeJSON(w, http.StatusOK, map[string]any{
		"predicted_class_name": prediction.Class,
		"display_name":         i18n.TranslateDiseaseName(displayName, locale),
		"confidence":           prediction.Confidence,
	})
}

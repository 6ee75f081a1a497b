// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"codeberg.org/cropdoctor/cropdoctor/core/diagnosis"
	"codeberg.org/cropdoctor/cropdoctor/core/genai"
	"codeberg.org/cropdoctor/cropdoctor/i18n"
	"codeberg.org/cropdoctor/cropdoctor/server/request_context"
)

type diagnosisRequest struct {
	DiseaseName string                `json:"disease_name"`
	UserContext diagnosis.UserContext `json:"user_context"`
	Language    string                `json:"language"`
}

// Diagnosis generates a full agronomy report for a detected disease.
//
// A generator failure is the upstream's fault, so it surfaces as 502 rather
// than a report-shaped error string.
func Diagnosis(w http.ResponseWriter, r *http.Request) error {
	var req diagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return writeError(w, http.StatusBadRequest, "invalid request data")
	}

	if req.DiseaseName == "" {
		return writeError(w, http.StatusBadRequest, "disease name is required for diagnosis")
	}

	locale := req.Language
	if !i18n.IsSupported(locale) {
		locale = request_context.FromRequest(r).Locale
	}

	report, err := diagnosis.DefaultComposer.Compose(r.Context(), req.DiseaseName, req.UserContext, locale)
	if err != nil {
		if errors.Is(err, genai.ErrNoAPIKey) {
			return writeError(w, http.StatusBadGateway, "report generation is not configured on this server")
		}

		return writeError(w, http.StatusBadGateway, "report generation failed: "+err.Error())
	}

	return writeJSON(w, http.StatusOK, map[string]string{"report": report})
}

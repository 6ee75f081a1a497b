// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default classifier request timeout in seconds.
	defaultClassifierTimeoutSeconds = 30
	// Default image upload cap in bytes (10 MiB).
	defaultMaxUploadBytes = 10 << 20

	// Default report generation timeout in seconds.
	defaultGenAITimeoutSeconds = 60
	// Default generative-text request budget per minute.
	defaultGenAIRequestsPerMinute = 15

	// Default geolocation lookup timeout in seconds.
	defaultGeolocationTimeoutSeconds = 2
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8282"

	cfg.Classifier.PredictURL = "http://localhost:8501/v1/models/plant_disease:predict"
	cfg.Classifier.Timeout = defaultClassifierTimeoutSeconds * time.Second
	cfg.Classifier.MaxUploadBytes = defaultMaxUploadBytes

	cfg.ModelStore.Object = "plant_disease_model.h5"
	cfg.ModelStore.LocalPath = "./data/plant_disease_model.h5"

	cfg.GenAI.Model = "gemini-2.5-flash"
	cfg.GenAI.Timeout = defaultGenAITimeoutSeconds * time.Second
	cfg.GenAI.RequestsPerMinute = defaultGenAIRequestsPerMinute

	cfg.Geolocation.Enabled = true
	cfg.Geolocation.BaseURL = "http://ip-api.com/json/"
	cfg.Geolocation.Timeout = defaultGeolocationTimeoutSeconds * time.Second

	cfg.Instance.RepoURL = "https://codeberg.org/cropdoctor/cropdoctor"

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/cropdoctor/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"testing"
)

/*
TestLoadConfig focuses on verifying main functionality (e.g. fallback when invalid input),
and *shouldn't* need exhaustive scenarios.

No t.Parallel here: LoadConfig reads process-wide environment variables.
*/

// TestLoadConfig is a test function that verifies the behavior of the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string            // Description of the test case
		env     map[string]string // Name of the environment variable and its value
		wantErr bool              // Whether an error is expected
	}{
		{
			name:    "Defaults only",
			env:     map[string]string{},
			wantErr: false,
		},
		{
			name: "Valid configuration",
			env: map[string]string{
				"CROPDOC_HOST":           "0.0.0.0",
				"CROPDOC_PORT":           "9000",
				"CROPDOC_CLASSIFIER_URL": "http://classifier.internal:8501/v1/models/plant_disease:predict",
			},
			wantErr: false,
		},
		{
			name: "Invalid CROPDOC_CLASSIFIER_URL",
			env: map[string]string{
				"CROPDOC_CLASSIFIER_URL": "not-a-url",
			},
			wantErr: true,
		},
		{
			name: "Invalid CROPDOC_CLASSIFIER_MAX_UPLOAD_BYTES",
			env: map[string]string{
				"CROPDOC_CLASSIFIER_MAX_UPLOAD_BYTES": "-1",
			},
			wantErr: true,
		},
		{
			name: "Firestore project without credentials",
			env: map[string]string{
				"CROPDOC_FIRESTORE_PROJECT_ID": "cropdoctor-prod",
			},
			wantErr: true,
		},
		{
			name: "Invalid CROPDOC_GEOLOCATION_BASE_URL",
			env: map[string]string{
				"CROPDOC_GEOLOCATION_BASE_URL": "ip-api.com",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			// Create a new ServerConfig instance
			config := &ServerConfig{}

			// Call LoadConfig
			err := config.LoadConfig()

			// Check for errors
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)

				return
			}

			if !tt.wantErr {
				// Test whether config fields were set correctly
				if host, ok := tt.env["CROPDOC_HOST"]; ok && config.Basic.Host != host {
					t.Errorf("LoadConfig() Host = %v, want %v", config.Basic.Host, host)
				}

				if port, ok := tt.env["CROPDOC_PORT"]; ok && config.Basic.Port != port {
					t.Errorf("LoadConfig() Port = %v, want %v", config.Basic.Port, port)
				}

				if config.Classifier.PredictURL == "" {
					t.Error("LoadConfig() Classifier.PredictURL is empty")
				}

				if config.Classifier.MaxUploadBytes <= 0 {
					t.Error("LoadConfig() Classifier.MaxUploadBytes is not positive")
				}

				if config.GenAI.Model == "" {
					t.Error("LoadConfig() GenAI.Model is empty")
				}

				if config.Geolocation.BaseURL == "" {
					t.Error("LoadConfig() Geolocation.BaseURL is empty")
				}
			}
		})
	}
}

// TestShouldSkipServerLogging verifies static asset paths bypass request logging.
func TestShouldSkipServerLogging(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}

	for _, path := range []string{"/img/icon.svg", "/css/main.css", "/js/app.js"} {
		if !cfg.ShouldSkipServerLogging(path) {
			t.Errorf("Expected %q to skip server logging", path)
		}
	}

	for _, path := range []string{"/", "/api/predict", "/api/translations"} {
		if cfg.ShouldSkipServerLogging(path) {
			t.Errorf("Expected %q to be logged", path)
		}
	}
}

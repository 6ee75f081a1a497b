// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.

The server starts with default configuration, so routes that need external
collaborators (Firestore, the Gemini API) are probed for their degraded
responses.
*/
package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "localhost:8282"
	authority = "http://localhost:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// geminiKey gates the expectations on /api/diagnosis: without a key the
// route degrades to 502.
var geminiKey = os.Getenv("GEMINI_API_KEY")

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int

	// POST requests specific fields
	JSONBody string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = 200
	}
}

// TestMain is used for global setup and teardown.
//
// It starts the server and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for the server.
	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true // Server is up.
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes tests all routes that work without external services.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		// Static pages
		{
			URL:    "/",
			Method: http.MethodGet,
		},
		{
			URL:    "/history",
			Method: http.MethodGet,
		},
		{
			URL:    "/guide",
			Method: http.MethodGet,
		},
		{
			URL:    "/tools",
			Method: http.MethodGet,
		},

		// Translation API
		{
			URL:    "/api/translations",
			Method: http.MethodGet,
		},
		{
			URL:    "/api/translations?lang=hi",
			Method: http.MethodGet,
		},
		{
			URL:    "/api/translations?lang=ta",
			Method: http.MethodGet,
		},

		// Language resolution
		{
			URL:    "/api/language",
			Method: http.MethodGet,
		},
		{
			URL:    "/api/language?lang=bn",
			Method: http.MethodGet,
		},
		{
			URL:    "/api/detect-language",
			Method: http.MethodGet,
		},

		// Language preference
		{
			URL:      "/api/language",
			Method:   http.MethodPost,
			JSONBody: `{"language": "ta"}`,
		},
		{
			URL:                "/api/language",
			Method:             http.MethodPost,
			JSONBody:           `{"language": "xx"}`,
			ExpectedStatusCode: 400,
		},

		// Prediction without an upload
		{
			URL:                "/api/predict",
			Method:             http.MethodPost,
			ExpectedStatusCode: 400,
		},

		// History is disabled without a Firestore project
		{
			URL:                "/api/history",
			Method:             http.MethodGet,
			ExpectedStatusCode: 503,
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			resp := makeRequest(t, buildRequest(t, authority+tc.URL, tc.Method, tc.JSONBody))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}

// TestDiagnosisDegraded verifies the report route answers 502 when no
// generative-text credential is configured.
func TestDiagnosisDegraded(t *testing.T) {
	t.Parallel()

	if geminiKey != "" {
		t.Skip("GEMINI_API_KEY is set, diagnosis is live")
	}

	tc := httpTestCase{
		URL:                "/api/diagnosis",
		Method:             http.MethodPost,
		JSONBody:           `{"disease_name": "Tomato___healthy"}`,
		ExpectedStatusCode: 502,
	}

	resp := makeRequest(t, buildRequest(t, authority+tc.URL, tc.Method, tc.JSONBody))
	defer resp.Body.Close()

	if resp.StatusCode != tc.ExpectedStatusCode {
		t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
	}
}

func buildRequest(t *testing.T, link, method, jsonBody string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.TODO(), method, link, strings.NewReader(jsonBody))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if jsonBody != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package genai calls a Gemini-compatible generateContent REST endpoint to
turn a diagnosis prompt into an agronomy report.

Each call is a fresh external request: no retries, no caching. A token
bucket bounds the request rate since the upstream API is metered.
*/
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"codeberg.org/cropdoctor/cropdoctor/core/audit"
	"codeberg.org/cropdoctor/cropdoctor/server/utils"
)

// DefaultBaseURL is the production generative-text endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrNoAPIKey indicates the generative-text credential was never
	// configured; callers surface this as a descriptive message rather
	// than failing the process.
	ErrNoAPIKey = errors.New("generative API key not configured")

	errHTTPRequestFailed = errors.New("HTTP request failed")
	errEmptyCandidate    = errors.New("response contained no generated text")
)

// Client talks to the generative-text service.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	limiter *rate.Limiter
}

// NewClient constructs a Client.
//
// An empty apiKey is allowed; Generate then fails with ErrNoAPIKey, keeping
// the feature degraded instead of fatal. requestsPerMinute <= 0 disables
// rate limiting.
func NewClient(apiKey, model, baseURL string, requestsPerMinute int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}

	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		limiter: limiter,
	}
}

// generateRequest is the minimal generateContent payload.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Generate submits prompt and returns the first candidate's text.
//
// The caller controls the overall deadline through ctx; a rate-limiter wait
// counts against it.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	requestURL := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	span := audit.Span{
		Destination: audit.ToGenAI,
		Method:      http.MethodPost,
		URL:         requestURL,
	}

	_ = span.Begin(ctx)
	defer span.End()

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		span.Error = err

		return "", err
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.Error = err

		return "", err
	}

	span.Body = body

	if resp.StatusCode != http.StatusOK {
		// The API reports failures as {"error": {"message": ...}}.
		message := gjson.GetBytes(body, "error.message").String()
		span.Error = errHTTPRequestFailed

		return "", fmt.Errorf("%w with status code %d: %s", errHTTPRequestFailed, resp.StatusCode, message)
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text").String()
	if text == "" {
		span.Error = errEmptyCandidate

		return "", errEmptyCandidate
	}

	return text, nil
}

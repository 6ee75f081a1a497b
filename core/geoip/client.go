// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package geoip looks up the coarse geographic location of a client address
through an ip-api.com compatible endpoint.

Lookups are advisory: the language resolver swallows every failure, so this
client only has to be honest about them.
*/
package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"codeberg.org/cropdoctor/cropdoctor/core/audit"
	"codeberg.org/cropdoctor/cropdoctor/i18n"
	"codeberg.org/cropdoctor/cropdoctor/server/utils"
)

var (
	errHTTPRequestFailed = errors.New("HTTP request failed")
	errLookupFailed      = errors.New("geolocation lookup failed")
)

// Client queries an ip-api.com style JSON endpoint.
// construct this struct manually.
type Client struct {
	// BaseURL of the lookup service (should have a trailing /), for
	// example "http://ip-api.com/json/".
	BaseURL   string
	UserAgent string
}

// lookupResponse mirrors the fields of an ip-api.com JSON answer we use.
type lookupResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Country string `json:"country"`
	Region  string `json:"region"`
}

// Locate resolves ip to a country and administrative region.
//
// It honors ctx for cancellation and deadline; the resolver passes a short
// per-call timeout. Implements [i18n.GeoLocator].
func (c *Client) Locate(ctx context.Context, ip string) (i18n.GeoLocation, error) {
	requestURL, err := url.JoinPath(c.BaseURL, ip)
	if err != nil {
		return i18n.GeoLocation{}, fmt.Errorf("failed to build lookup URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return i18n.GeoLocation{}, err
	}

	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	span := audit.Span{
		Destination: audit.ToGeoIP,
		Method:      http.MethodGet,
		URL:         requestURL,
	}

	_ = span.Begin(ctx)
	defer span.End()

	resp, err := utils.HTTPClient.Do(req)
	if err != nil {
		span.Error = err

		return i18n.GeoLocation{}, err
	}
	defer resp.Body.Close()

	span.StatusCode = resp.StatusCode

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		span.Error = errHTTPRequestFailed

		return i18n.GeoLocation{}, fmt.Errorf("%w with status code %d: %s", errHTTPRequestFailed, resp.StatusCode, string(body))
	}

	var lookup lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		span.Error = err

		return i18n.GeoLocation{}, fmt.Errorf("failed to unmarshal JSON response: %w", err)
	}

	if lookup.Status != "success" {
		span.Error = errLookupFailed

		return i18n.GeoLocation{}, fmt.Errorf("%w: %s", errLookupFailed, lookup.Message)
	}

	return i18n.GeoLocation{
		Country: lookup.Country,
		Region:  lookup.Region,
	}, nil
}

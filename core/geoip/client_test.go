// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/203.0.113.5", r.URL.Path)
		assert.Equal(t, "cropdoctor-test", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","country":"India","region":"TN","regionName":"Tamil Nadu"}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL + "/json/", UserAgent: "cropdoctor-test"}

	loc, err := client.Locate(context.Background(), "203.0.113.5")
	require.NoError(t, err)
	assert.Equal(t, "India", loc.Country)
	assert.Equal(t, "TN", loc.Region)
}

func TestLocateFailedStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"reserved range"}`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL + "/json/"}

	_, err := client.Locate(context.Background(), "192.0.2.1")
	require.ErrorIs(t, err, errLookupFailed)
	assert.Contains(t, err.Error(), "reserved range")
}

func TestLocateHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL + "/json/"}

	_, err := client.Locate(context.Background(), "203.0.113.5")
	require.ErrorIs(t, err, errHTTPRequestFailed)
}

func TestLocateMalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := &Client{BaseURL: srv.URL + "/json/"}

	_, err := client.Locate(context.Background(), "203.0.113.5")
	require.Error(t, err)
}

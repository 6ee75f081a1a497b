// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"codeberg.org/cropdoctor/cropdoctor/core/cookie"
	"codeberg.org/cropdoctor/cropdoctor/core/untrusted"
)

// LangParam is the name of the URL query parameter carrying an explicit
// language override. The cookie counterpart is [cookie.LangCookie].
const LangParam = "lang"

// defaultGeoTimeout bounds a single geolocation lookup.
const defaultGeoTimeout = 2 * time.Second

// ErrUnsupportedLocale is returned by Resolver.SetPreference for codes
// outside the supported set.
var ErrUnsupportedLocale = errors.New("unsupported locale code")

// GeoLocation is the subset of a geolocation lookup result the resolver
// cares about.
type GeoLocation struct {
	Country string
	Region  string
}

// GeoLocator resolves a network address to a coarse location.
//
// Implementations must honor the context deadline. The resolver treats every
// failure as "no signal".
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (GeoLocation, error)
}

// Resolver computes the effective locale for incoming requests.
//
// Geo may be nil, in which case the geolocation step is skipped entirely.
// A Resolver is stateless apart from its collaborators and is safe for
// concurrent use.
type Resolver struct {
	// Geo is the injected geolocation collaborator. Best-effort only.
	Geo GeoLocator

	// GeoTimeout bounds each geolocation lookup; defaults to 2s.
	GeoTimeout time.Duration

	Logger zerolog.Logger
}

// Resolve determines the locale for r by evaluating, in strict precedence
// order: preference cookie, explicit query parameter, geolocation inference,
// Accept-Language negotiation, DefaultLocale. The first successful signal
// short-circuits. Resolve never fails and never performs I/O beyond the
// bounded geolocation lookup.
func (rv *Resolver) Resolve(r *http.Request) string {
	// 1. Explicit per-session preference.
	if pref := untrusted.GetCookie(r, cookie.LangCookie); IsSupported(pref) {
		return pref
	}

	// 2. Explicit request parameter.
	if param := r.URL.Query().Get(LangParam); IsSupported(param) {
		return param
	}

	return rv.Detect(r)
}

// Detect resolves the locale from ambient signals only: geolocation, then
// Accept-Language, then DefaultLocale. Explicit overrides (cookie and query
// parameter) are ignored.
func (rv *Resolver) Detect(r *http.Request) string {
	if code, ok := rv.resolveGeo(r); ok {
		return code
	}

	if code, ok := headerLocale(r.Header.Get("Accept-Language")); ok {
		return code
	}

	return DefaultLocale
}

// SetPreference stores a supported locale in the preference cookie.
//
// An unsupported code returns ErrUnsupportedLocale and leaves any existing
// preference untouched. This is the only mutating operation in the pipeline.
func (rv *Resolver) SetPreference(w http.ResponseWriter, r *http.Request, locale string) error {
	if !IsSupported(locale) {
		return ErrUnsupportedLocale
	}

	untrusted.SetCookie(w, r, cookie.LangCookie, locale)

	return nil
}

// ClearPreference removes the preference cookie, reverting the session to
// inferred resolution.
func (rv *Resolver) ClearPreference(w http.ResponseWriter, r *http.Request) {
	untrusted.ClearCookie(w, r, cookie.LangCookie)
}

// resolveGeo performs the advisory geolocation step.
//
// Local and private addresses are skipped (no geolocation during local
// development), and any lookup failure is swallowed: this step must never
// surface an error to the caller.
func (rv *Resolver) resolveGeo(r *http.Request) (string, bool) {
	if rv.Geo == nil {
		return "", false
	}

	ip := clientIP(r)
	if ip == "" {
		return "", false
	}

	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return "", false
	}

	timeout := rv.GeoTimeout
	if timeout <= 0 {
		timeout = defaultGeoTimeout
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	loc, err := rv.Geo.Locate(ctx, ip)
	if err != nil {
		rv.Logger.Debug().
			Err(err).
			Str("ip", ip).
			Msg("Geolocation lookup failed, falling through")

		return "", false
	}

	if loc.Country != GeoCountry {
		return "", false
	}

	code, ok := RegionLanguageMap["IN-"+loc.Region]
	if !ok {
		code = GeoFallbackLocale
	}

	// The region table can emit codes with no catalog (e.g. "kn" for
	// Karnataka); normalize those to the default locale.
	if !IsSupported(code) {
		code = DefaultLocale
	}

	return code, true
}

// headerLocale negotiates a locale from an Accept-Language header value.
//
// Entries are considered in the header's listed order; the first whose
// primary subtag is a supported locale wins. Quality weights are ignored,
// matching the original negotiation behavior.
func headerLocale(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	for _, entry := range strings.Split(header, ",") {
		entry = strings.TrimSpace(entry)
		// Strip any parameters such as ";q=0.8".
		if i := strings.IndexByte(entry, ';'); i >= 0 {
			entry = strings.TrimSpace(entry[:i])
		}

		if entry == "" {
			continue
		}

		tag, err := language.Parse(entry)
		if err != nil {
			continue
		}

		base, _ := tag.Base()
		if code := strings.ToLower(base.String()); IsSupported(code) {
			return code, true
		}
	}

	return "", false
}

// clientIP extracts the client's IP address with proxy awareness.
//
// Proxy headers are only trusted when the direct peer is on a private or
// loopback network.
func clientIP(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if ip, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = ip
	}

	fromTrustedSource := false
	if ip := net.ParseIP(remoteIP); ip != nil {
		fromTrustedSource = ip.IsPrivate() || ip.IsLoopback()
	}

	if fromTrustedSource {
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}

		if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
			parts := strings.Split(xff, ",")

			return strings.TrimSpace(parts[len(parts)-1])
		}
	}

	return remoteIP
}

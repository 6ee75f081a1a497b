// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

// Cookie names defined as constants.
const (
	// LangCookie carries the user's explicitly-set language preference.
	// It overrides all inferred resolution for as long as it is set.
	LangCookie CookieName = "Lang"
)

// AllCookieNames defines all cookies that can be set by the user.
var AllCookieNames = []CookieName{
	LangCookie,
}

// IsHttpOnly reports whether a cookie must be hidden from client-side
// scripts. The language preference is read by the UI to pre-select the
// language picker, so it stays readable.
func IsHttpOnly(name CookieName) bool {
	switch name {
	case LangCookie:
		return false
	default:
		return true
	}
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "context"

type contextKeyType struct{}

var localeKey = contextKeyType{}

// WithLocale stores a resolved locale code in ctx and returns the derived
// context. The ctx must not be nil.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, localeKey, code)
}

// LocaleFrom returns the locale code stored in ctx, or DefaultLocale if none
// is present. It never returns an unsupported code.
func LocaleFrom(ctx context.Context) string {
	if ctx != nil {
		if code, _ := ctx.Value(localeKey).(string); IsSupported(code) {
			return code
		}
	}

	return DefaultLocale
}

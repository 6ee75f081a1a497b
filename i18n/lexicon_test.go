// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateDiseaseNameDefaultLocale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Tomato___healthy", TranslateDiseaseName("Tomato___healthy", "en"))
}

func TestTranslateDiseaseNameUnknownLocale(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Tomato___healthy", TranslateDiseaseName("Tomato___healthy", "xx"))
	assert.Equal(t, "Tomato___healthy", TranslateDiseaseName("Tomato___healthy", ""))
}

func TestTranslateDiseaseNameSubstrings(t *testing.T) {
	t.Parallel()

	// Both matched terms must be replaced.
	got := TranslateDiseaseName("Tomato___healthy", "hi")

	if !strings.Contains(got, "टमाटर") {
		t.Errorf("Expected Hindi term for Tomato in %q", got)
	}

	if !strings.Contains(got, "स्वस्थ") {
		t.Errorf("Expected Hindi term for healthy in %q", got)
	}

	if strings.Contains(got, "Tomato") || strings.Contains(got, "healthy") {
		t.Errorf("Expected no canonical terms left in %q", got)
	}
}

func TestTranslateDiseaseNameLongestMatchWins(t *testing.T) {
	t.Parallel()

	// "Septoria leaf spot" is in the Hindi lexicon; the shorter "Leaf blight"
	// and crop terms must not break it apart.
	got := TranslateDiseaseName("Tomato___Septoria leaf spot", "hi")

	assert.Contains(t, got, "सेप्टोरिया पत्ती स्पॉट")
	assert.Contains(t, got, "टमाटर")
}

func TestTranslateDiseaseNameCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := TranslateDiseaseName("TOMATO___Late blight", "hi")

	assert.Contains(t, got, "टमाटर")
	assert.Contains(t, got, "देर से झुलसा")
}

func TestTranslateDiseaseNameDeterministic(t *testing.T) {
	t.Parallel()

	first := TranslateDiseaseName("Corn_(maize)___Northern_Leaf_Blight", "hi")
	for range 20 {
		assert.Equal(t, first, TranslateDiseaseName("Corn_(maize)___Northern_Leaf_Blight", "hi"))
	}
}

func TestTranslateDiseaseNameNoMatch(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Dragonfruit___rot", TranslateDiseaseName("Dragonfruit___rot", "ta"))
}

func TestTranslateDiseaseNameNonASCIIInput(t *testing.T) {
	t.Parallel()

	// Unicode lowercasing changes the UTF-8 byte length of some runes:
	// "Ⱥ" (U+023A) grows from 2 to 3 bytes, "K" (U+212A, the Kelvin sign)
	// shrinks from 3 bytes to 1. Matching must stay aligned on such input.
	got := TranslateDiseaseName("Ⱥtomato", "hi")
	assert.Equal(t, "Ⱥटमाटर", got)

	got = TranslateDiseaseName("K\u212Atomato", "hi")
	assert.Equal(t, "K\u212Aटमाटर", got)

	// Fully non-ASCII input passes through untouched.
	assert.Equal(t, "आम___रोग", TranslateDiseaseName("आम___रोग", "hi"))
}

func TestReplaceAllFold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "x x x", replaceAllFold("a A a", "a", "x"))
	assert.Equal(t, "unchanged", replaceAllFold("unchanged", "zz", "x"))
	assert.Equal(t, "same", replaceAllFold("same", "", "x"))
	assert.Equal(t, "Ⱥx", replaceAllFold("Ⱥa", "A", "x"))
}

func TestLowerASCII(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Tomato", "tomato"},
		{"already lower", "already lower"},
		{"MiXeD 123", "mixed 123"},
		{"ȺK\u212A", "Ⱥk\u212A"},
		{"", ""},
	}

	for _, tt := range tests {
		got := lowerASCII(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Len(t, got, len(tt.in))
	}
}

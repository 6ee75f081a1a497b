// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package diagnosis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records the last prompt and replies with canned output.
type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt

	return f.reply, f.err
}

func TestCompose(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "## Integrated Diagnosis\n..."}
	composer := &Composer{Gen: gen}

	report, err := composer.Compose(context.Background(), "Tomato___Late_blight", UserContext{
		"leaf_discoloration": "yellow spots",
		"recent_weather":     "heavy rain",
	}, "en")
	require.NoError(t, err)
	assert.Equal(t, "## Integrated Diagnosis\n...", report)

	// Underscores are flattened for readability.
	assert.Contains(t, gen.prompt, `"Tomato   Late blight"`)
	assert.Contains(t, gen.prompt, "Write the entire report in English.")

	// Provided answers are quoted, missing ones render as "Not specified.".
	assert.Contains(t, gen.prompt, `Leaf discoloration observed: "yellow spots"`)
	assert.Contains(t, gen.prompt, `Recent weather: "heavy rain"`)
	assert.Contains(t, gen.prompt, `Watering frequency: "Not specified."`)

	// All five report sections are requested.
	for _, section := range []string{
		"Integrated Diagnosis",
		"Immediate Action Plan (Organic)",
		"Immediate Action Plan (Chemical)",
		"Long-Term Prevention Strategy",
		"Local Agricultural Support (India)",
	} {
		assert.Contains(t, gen.prompt, section)
	}
}

func TestComposeLocalizedPrompt(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	composer := &Composer{Gen: gen}

	_, err := composer.Compose(context.Background(), "Tomato___Late_blight", nil, "hi")
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "Hindi")
	// The disease name is run through the lexicon before prompting, with
	// label separators flattened so compound terms match.
	assert.Contains(t, gen.prompt, "टमाटर")
	assert.Contains(t, gen.prompt, "देर से झुलसा")
	assert.NotContains(t, gen.prompt, "Tomato")
}

func TestComposeUnknownLocaleFallsBack(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	composer := &Composer{Gen: gen}

	_, err := composer.Compose(context.Background(), "Tomato___healthy", nil, "fr")
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "Write the entire report in English.")
}

func TestComposeGeneratorError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("upstream unavailable")
	composer := &Composer{Gen: &fakeGenerator{err: wantErr}}

	_, err := composer.Compose(context.Background(), "Tomato___healthy", nil, "en")
	require.ErrorIs(t, err, wantErr)
}

func TestComposeSectionHeadersAppearOnce(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	composer := &Composer{Gen: gen}

	_, err := composer.Compose(context.Background(), "Potato___Early_blight", nil, "en")
	require.NoError(t, err)

	for _, section := range []string{"Plant Symptoms", "Environmental Conditions", "Treatment History", "Pest Observations", "Plant Management"} {
		assert.Equal(t, 1, strings.Count(gen.prompt, "- "+section+":"), "section %q", section)
	}
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package diagnosis assembles the agronomist prompt for a detected disease
and hands it to a text-generation backend.

The report comes back verbatim; nothing here caches or retries.
*/
package diagnosis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/cropdoctor/cropdoctor/i18n"
)

// defaultTimeout bounds a single report generation.
const defaultTimeout = 60 * time.Second

// TextGenerator produces text from a prompt. Satisfied by genai.Client.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DefaultComposer is the process-wide composer, set during startup.
var DefaultComposer *Composer

// UserContext holds the free-form questionnaire answers submitted with a
// diagnosis request. Missing answers render as "Not specified.".
type UserContext map[string]string

// contextFields lists the questionnaire answers in the order they appear
// in the prompt, grouped under their section label.
var contextFields = []struct {
	section string
	label   string
	key     string
}{
	{"Plant Symptoms", "Leaf discoloration observed", "leaf_discoloration"},
	{"Plant Symptoms", "Wilting or dropping", "wilting_dropping"},
	{"Environmental Conditions", "Recent weather", "recent_weather"},
	{"Environmental Conditions", "Temperature condition", "temperature_condition"},
	{"Treatment History", "Recent fertilizer application", "recent_fertilizer"},
	{"Treatment History", "Previous pesticide use", "previous_pesticide"},
	{"Pest Observations", "Insects observed", "insects_observed"},
	{"Pest Observations", "Evidence of pest damage", "evidence_of_damage"},
	{"Plant Management", "Watering frequency", "watering_frequency"},
	{"Plant Management", "Plant age/growth stage", "plant_age_growth"},
}

// languageInstructions selects the response-language directive embedded in
// the prompt. Unknown locales use the default-locale entry.
var languageInstructions = map[string]string{
	"en": "Write the entire report in English.",
	"hi": "Write the entire report in Hindi (हिन्दी), using Devanagari script.",
	"mr": "Write the entire report in Marathi (मराठी), using Devanagari script.",
	"ta": "Write the entire report in Tamil (தமிழ்).",
	"te": "Write the entire report in Telugu (తెలుగు).",
	"bn": "Write the entire report in Bengali (বাংলা).",
}

// Composer builds diagnosis prompts and runs them through Gen.
type Composer struct {
	Gen TextGenerator

	// Timeout bounds each Compose call; zero means defaultTimeout.
	Timeout time.Duration
}

// Compose builds the prompt for diseaseName and userContext, localized for
// locale, and returns the generated report.
func (c *Composer) Compose(ctx context.Context, diseaseName string, userContext UserContext, locale string) (string, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.Gen.Generate(ctx, buildPrompt(diseaseName, userContext, locale))
}

func buildPrompt(diseaseName string, userContext UserContext, locale string) string {
	// Flatten the label separators first so multi-word lexicon terms
	// ("Late blight") can match labels like "Tomato___Late_blight".
	readable := strings.ReplaceAll(diseaseName, "_", " ")
	readable = i18n.TranslateDiseaseName(readable, locale)

	instruction, ok := languageInstructions[locale]
	if !ok {
		instruction = languageInstructions[i18n.DefaultLocale]
	}

	var b strings.Builder

	b.WriteString("Act as an expert agronomist and plant pathologist for a user in India.\n\n")
	b.WriteString(instruction)
	b.WriteString("\n\n*Primary Diagnosis from Image Analysis:*\n")
	fmt.Fprintf(&b, "The image analysis model has identified the plant disease as: %q.\n\n", readable)
	b.WriteString("*Additional Context from the User (Detailed Questionnaire):*\n")

	section := ""
	for _, field := range contextFields {
		if field.section != section {
			section = field.section
			fmt.Fprintf(&b, "- %s:\n", section)
		}

		answer := userContext[field.key]
		if answer == "" {
			answer = "Not specified."
		}

		fmt.Fprintf(&b, "    - %s: %q\n", field.label, answer)
	}

	b.WriteString("\n*Your Task:*\n")
	b.WriteString("Based on all the information above, provide a comprehensive and actionable report. ")
	b.WriteString("Structure your response with the following sections using clear markdown:\n\n")
	b.WriteString("1. *Integrated Diagnosis*\n")
	b.WriteString("2. *Immediate Action Plan (Organic)*\n")
	b.WriteString("3. *Immediate Action Plan (Chemical)*\n")
	b.WriteString("4. *Long-Term Prevention Strategy*\n")
	b.WriteString("5. *Local Agricultural Support (India)*\n")

	return b.String()
}

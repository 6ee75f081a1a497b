// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"sort"
	"strings"
)

// diseaseLexicons maps locale codes to hand-authored translations of
// canonical (English) disease and crop vocabulary.
//
// The tables are incomplete by design: untranslated terms pass through
// unchanged. The default locale needs no table.
var diseaseLexicons = map[string]map[string]string{
	"hi": {
		"Apple":              "सेब",
		"Blueberry":          "ब्लूबेरी",
		"Cherry":             "चेरी",
		"Corn":               "मक्का",
		"Grape":              "अंगूर",
		"Orange":             "संतरा",
		"Peach":              "आड़ू",
		"Pepper":             "मिर्च",
		"Potato":             "आलू",
		"Raspberry":          "रास्पबेरी",
		"Soybean":            "सोयाबीन",
		"Squash":             "स्क्वैश",
		"Strawberry":         "स्ट्रॉबेरी",
		"Tomato":             "टमाटर",
		"healthy":            "स्वस्थ",
		"Black rot":          "काली सड़न",
		"Cedar rust":         "देवदार जंग",
		"Scab":               "पपड़ी",
		"Powdery mildew":     "पाउडरी मिल्ड्यू",
		"Leaf blight":        "पत्ती झुलसा",
		"Esca":               "एस्का",
		"Haunglongbing":      "हुआंगलांगबिंग",
		"Bacterial spot":     "बैक्टीरियल स्पॉट",
		"Leaf scorch":        "पत्ती स्कॉर्च",
		"Early blight":       "शुरुआती झुलसा",
		"Late blight":        "देर से झुलसा",
		"Septoria leaf spot": "सेप्टोरिया पत्ती स्पॉट",
		"Target spot":        "लक्ष्य स्पॉट",
		"Mosaic virus":       "मोजेक वायरस",
		"Yellow leaf curl":   "पीली पत्ती कर्ल",
		"Spider mites":       "मकड़ी के घुन",
	},
	"mr": {
		"Apple":          "सफरचंद",
		"Blueberry":      "नील बेरी",
		"Cherry":         "चेरी",
		"Corn":           "मक्का",
		"Grape":          "द्राक्ष",
		"Orange":         "नारंगी",
		"Peach":          "आडू",
		"Pepper":         "मिरची",
		"Potato":         "बटाटा",
		"Raspberry":      "रसभरी",
		"Soybean":        "सोयाबीन",
		"Squash":         "स्क्वाश",
		"Strawberry":     "स्ट्रॉबेरी",
		"Tomato":         "टोमॅटो",
		"healthy":        "निरोगी",
		"Black rot":      "काळी कुजळी",
		"Cedar rust":     "देवदार गंजक",
		"Scab":           "कोड",
		"Powdery mildew": "शेताळ",
		"Leaf blight":    "पानांचा झुलसा",
		"Esca":           "एस्का",
	},
	"ta": {
		"Apple":      "ஆப்பிள்",
		"Blueberry":  "ப்ளூபெரி",
		"Cherry":     "சேரி",
		"Corn":       "சோளம்",
		"Grape":      "திராட்சை",
		"Orange":     "ஆரஞ்சு",
		"Peach":      "பீச்",
		"Pepper":     "மிளகு",
		"Potato":     "உருளைக்கிழங்கு",
		"Raspberry":  "ரேஸ்பெரி",
		"Soybean":    "சோயாபீன்",
		"Squash":     "கோல்",
		"Strawberry": "நீதிக்கொட்டை",
		"Tomato":     "தக்காளி",
		"healthy":    "ஆரோக்கியமான",
		"Black rot":  "கருப்பு அழுகல்",
		"Cedar rust": "தேவதாரு அரிப்பு",
	},
	"te": {
		"Apple":      "ఆపిల్",
		"Blueberry":  "బ్లూబెర్రీ",
		"Cherry":     "చెర్రీ",
		"Corn":       "మకా",
		"Grape":      "ద్రాక్ష",
		"Orange":     "నారింజ",
		"Peach":      "పీచ్",
		"Pepper":     "మిరిపప్పు",
		"Potato":     "బంతులు",
		"Raspberry":  "రాస్‌బెర్రీ",
		"Soybean":    "సోయాబీన్",
		"Squash":     "స్కాష్",
		"Strawberry": "స్ట్రాబెర్రీ",
		"Tomato":     "టమాటా",
		"healthy":    "ఆరోగ్యకరమైన",
	},
	"bn": {
		"Apple":      "আপেল",
		"Blueberry":  "ব্লুবেরি",
		"Cherry":     "চেরি",
		"Corn":       "ভুট্টা",
		"Grape":      "আঙ্গুর",
		"Orange":     "কমলা",
		"Peach":      "পীচ",
		"Pepper":     "মরিচ",
		"Potato":     "আলু",
		"Raspberry":  "রাস্পবেরি",
		"Soybean":    "সয়াবিন",
		"Squash":     "স্কোয়াশ",
		"Strawberry": "স্ট্রবেরি",
		"Tomato":     "টমেটো",
		"healthy":    "সুস্থ",
	},
}

// lexiconOrder holds, per locale, the lexicon terms ordered longest-first
// (ties broken lexicographically). Substring replacement walks terms in this
// order so that compound terms like "Septoria leaf spot" win over their
// fragments and results are deterministic.
var lexiconOrder = buildLexiconOrder()

func buildLexiconOrder() map[string][]string {
	out := make(map[string][]string, len(diseaseLexicons))

	for locale, lexicon := range diseaseLexicons {
		terms := make([]string, 0, len(lexicon))
		for term := range lexicon {
			terms = append(terms, term)
		}

		sort.Slice(terms, func(i, j int) bool {
			if len(terms[i]) != len(terms[j]) {
				return len(terms[i]) > len(terms[j])
			}

			return terms[i] < terms[j]
		})

		out[locale] = terms
	}

	return out
}

// TranslateDiseaseName localizes a classifier label such as
// "Tomato___Early blight" for locale.
//
// The default locale and unrecognized locales return name unchanged. An
// exact lexicon match wins; otherwise every lexicon term that occurs in name
// (matched case-insensitively, longest term first) is replaced with its
// localized value. Unknown input is returned unchanged; this function never
// fails.
func TranslateDiseaseName(name, locale string) string {
	lexicon, ok := diseaseLexicons[locale]
	if locale == DefaultLocale || !ok {
		return name
	}

	if localized, ok := lexicon[name]; ok {
		return localized
	}

	out := name
	for _, term := range lexiconOrder[locale] {
		out = replaceAllFold(out, term, lexicon[term])
	}

	return out
}

// replaceAllFold replaces every case-insensitive occurrence of old in s with
// new. The lexicon's canonical terms are ASCII, so an ASCII-only byte fold
// is sufficient; it also keeps indexes into the folded copy valid for s,
// which full Unicode lowercasing does not (it can change UTF-8 byte lengths).
func replaceAllFold(s, old, new string) string {
	if old == "" {
		return s
	}

	lower := lowerASCII(s)
	lowerOld := lowerASCII(old)

	var b strings.Builder

	for {
		i := strings.Index(lower, lowerOld)
		if i < 0 {
			b.WriteString(s)

			return b.String()
		}

		b.WriteString(s[:i])
		b.WriteString(new)

		s = s[i+len(lowerOld):]
		lower = lower[i+len(lowerOld):]
	}
}

// lowerASCII lowercases the ASCII letters of s and leaves every other byte
// untouched, so len(lowerASCII(s)) == len(s) always holds.
func lowerASCII(s string) string {
	var b []byte

	for i := range len(s) {
		c := s[i]
		if c < 'A' || c > 'Z' {
			continue
		}

		if b == nil {
			b = []byte(s)
		}

		b[i] = c + ('a' - 'A')
	}

	if b == nil {
		return s
	}

	return string(b)
}

// Copyright 2025, the Crop Doctor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/cropdoctor/cropdoctor/core/diagnosis"
	"codeberg.org/cropdoctor/cropdoctor/core/genai"
	"codeberg.org/cropdoctor/cropdoctor/i18n"
	"codeberg.org/cropdoctor/cropdoctor/server/request_context"
)

func TestMain(m *testing.M) {
	// The middleware chain normally wires this during startup.
	i18n.DefaultResolver = &i18n.Resolver{}

	os.Exit(m.Run())
}

// newHandlerRequest builds a request with a populated request context, the
// way the middleware chain would before a handler runs.
func newHandlerRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "127.0.0.1:52428"

	return req.WithContext(request_context.WithRequestContext(req.Context(), req))
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Result().Body).Decode(&body))

	return body
}

func TestCurrentLanguage(t *testing.T) {
	req := newHandlerRequest(http.MethodGet, "/api/language?lang=ta", "")

	w := httptest.NewRecorder()
	require.NoError(t, CurrentLanguage(w, req))

	body := decodeBody(t, w)
	assert.Equal(t, "ta", body["language"])
	assert.Equal(t, "தமிழ் (Tamil)", body["language_name"])
	assert.Len(t, body["supported"], len(i18n.SupportedLanguages))
}

func TestSetLanguage(t *testing.T) {
	req := newHandlerRequest(http.MethodPost, "/api/language", `{"language": "hi"}`)

	w := httptest.NewRecorder()
	require.NoError(t, SetLanguage(w, req))

	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "hi", body["language"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "Lang", cookies[0].Name)
	assert.Equal(t, "hi", cookies[0].Value)
}

func TestSetLanguageUnsupported(t *testing.T) {
	req := newHandlerRequest(http.MethodPost, "/api/language", `{"language": "xx"}`)

	w := httptest.NewRecorder()
	require.NoError(t, SetLanguage(w, req))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "xx")
	assert.Empty(t, w.Result().Cookies())
}

func TestSetLanguageBadBody(t *testing.T) {
	for _, payload := range []string{"", "not json", `{"language": ""}`} {
		req := newHandlerRequest(http.MethodPost, "/api/language", payload)

		w := httptest.NewRecorder()
		require.NoError(t, SetLanguage(w, req))
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %q", payload)
	}
}

func TestDetectLanguage(t *testing.T) {
	// The explicit parameter and cookie must not leak into detection.
	req := newHandlerRequest(http.MethodGet, "/api/detect-language?lang=ta", "")
	req.Header.Set("Accept-Language", "bn")
	req.AddCookie(&http.Cookie{Name: "Lang", Value: "hi"})

	w := httptest.NewRecorder()
	require.NoError(t, DetectLanguage(w, req))

	body := decodeBody(t, w)
	assert.Equal(t, "bn", body["detected_language"])
	assert.Equal(t, "বাংলা (Bengali)", body["language_name"])
}

func TestTranslationsLocaleSelection(t *testing.T) {
	// ?lang= wins over the resolved locale.
	req := newHandlerRequest(http.MethodGet, "/api/translations?lang=mr", "")
	req.AddCookie(&http.Cookie{Name: "Lang", Value: "hi"})

	w := httptest.NewRecorder()
	require.NoError(t, Translations(w, req))

	body := decodeBody(t, w)
	assert.Equal(t, "mr", body["language"])
	assert.Contains(t, body, "translations")
}

func TestDiagnosis(t *testing.T) {
	gen := &stubGenerator{reply: "## Report body"}
	diagnosis.DefaultComposer = &diagnosis.Composer{Gen: gen}

	req := newHandlerRequest(http.MethodPost, "/api/diagnosis",
		`{"disease_name": "Tomato___Late_blight", "user_context": {"recent_weather": "heavy rain"}, "language": "hi"}`)

	w := httptest.NewRecorder()
	require.NoError(t, Diagnosis(w, req))

	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "## Report body", body["report"])
	assert.Contains(t, gen.prompt, "Hindi")
}

func TestDiagnosisMissingDiseaseName(t *testing.T) {
	diagnosis.DefaultComposer = &diagnosis.Composer{Gen: &stubGenerator{}}

	req := newHandlerRequest(http.MethodPost, "/api/diagnosis", `{"user_context": {}}`)

	w := httptest.NewRecorder()
	require.NoError(t, Diagnosis(w, req))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDiagnosisGeneratorNotConfigured(t *testing.T) {
	diagnosis.DefaultComposer = &diagnosis.Composer{Gen: &stubGenerator{err: genai.ErrNoAPIKey}}

	req := newHandlerRequest(http.MethodPost, "/api/diagnosis", `{"disease_name": "Tomato___healthy"}`)

	w := httptest.NewRecorder()
	require.NoError(t, Diagnosis(w, req))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "not configured")
}

func TestDiagnosisGeneratorFailure(t *testing.T) {
	diagnosis.DefaultComposer = &diagnosis.Composer{Gen: &stubGenerator{err: errors.New("quota exceeded")}}

	req := newHandlerRequest(http.MethodPost, "/api/diagnosis", `{"disease_name": "Tomato___healthy"}`)

	w := httptest.NewRecorder()
	require.NoError(t, Diagnosis(w, req))

	assert.Equal(t, http.StatusBadGateway, w.Code)

	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "quota exceeded")
}

func TestHistoryNotConfigured(t *testing.T) {
	req := newHandlerRequest(http.MethodGet, "/api/history", "")

	w := httptest.NewRecorder()
	require.NoError(t, History(w, req))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPredictNotConfigured(t *testing.T) {
	req := newHandlerRequest(http.MethodPost, "/api/predict", "")

	w := httptest.NewRecorder()
	require.NoError(t, Predict(w, req))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// stubGenerator satisfies diagnosis.TextGenerator.
type stubGenerator struct {
	prompt string
	reply  string
	err    error
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt

	return s.reply, s.err
}

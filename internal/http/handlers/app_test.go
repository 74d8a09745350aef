package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"impactseed/internal/store"
)

func newTestApp() *App {
	return NewApp(zerolog.Nop(), store.NewMemory(), Redirects{
		Login:               "/login.html",
		Index:               "/index.html",
		Verification:        "/Verification.html",
		VerificationSuccess: "/success.html",
		DonationSuccess:     "/DonetionSuccesfull.html",
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	e, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in %v", body)
	}
	code, _ := e["code"].(string)
	return code
}

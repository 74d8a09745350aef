package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeGuard struct {
	session bool
	profile bool
}

func (g fakeGuard) HasSession(context.Context) bool { return g.session }
func (g fakeGuard) HasProfile(context.Context) bool { return g.profile }

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name       string
		guard      fakeGuard
		wantStatus int
	}{
		{name: "no session no profile", guard: fakeGuard{}, wantStatus: http.StatusSeeOther},
		{name: "session only", guard: fakeGuard{session: true}, wantStatus: http.StatusOK},
		{name: "profile only", guard: fakeGuard{profile: true}, wantStatus: http.StatusOK},
		{name: "both", guard: fakeGuard{session: true, profile: true}, wantStatus: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireSession(tc.guard, "/login.html")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/profile", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if tc.wantStatus == http.StatusSeeOther {
				if loc := rec.Header().Get("Location"); loc != "/login.html" {
					t.Fatalf("location = %q, want the login page", loc)
				}
			}
		})
	}
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"impactseed/internal/middleware"
	"impactseed/internal/money"
	"impactseed/internal/repo"
)

func TestDonationsCreate(t *testing.T) {
	a := newTestApp()
	ctx := context.Background()
	c, err := a.Campaigns.CreateDraft(ctx, repo.CampaignForm{Title: "Water Wells", Goal: "1000"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/donations",
		strings.NewReader(`{"campaign_id":"`+c.ID+`","amount":75,"currency":"USD"}`))
	a.DonationsCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	got := body["campaign"].(map[string]any)
	if got["raised"] != 75.0 {
		t.Fatalf("raised = %v, want 75", got["raised"])
	}
	if got["backers"] != 1.0 {
		t.Fatalf("backers = %v, want 1", got["backers"])
	}
	receipt := body["receipt"].(map[string]any)
	if receipt["amount"] != 75.0 || receipt["currency"] != "USD" {
		t.Fatalf("receipt = %v", receipt)
	}
	if body["display"] != "$75" {
		t.Fatalf("display = %v, want $75", body["display"])
	}
	if body["redirect"] != "/DonetionSuccesfull.html" {
		t.Fatalf("redirect = %v, want the success page", body["redirect"])
	}
}

func TestDonationsCreateDefaultsCurrencyFromContext(t *testing.T) {
	a := newTestApp()
	ctx := context.Background()
	if _, err := a.Campaigns.CreateDraft(ctx, repo.CampaignForm{Title: "Implicit"}); err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/donations", strings.NewReader(`{"amount":20}`))
	req = req.WithContext(context.WithValue(req.Context(), middleware.CurrencyKey, money.Currency{Code: "EUR", Symbol: "€"}))
	a.DonationsCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	receipt := decodeBody(t, rec)["receipt"].(map[string]any)
	if receipt["currency"] != "EUR" || receipt["symbol"] != "€" {
		t.Fatalf("receipt = %v, want the context currency", receipt)
	}
}

func TestDonationsCreateRejects(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "zero amount", body: `{"amount":0}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "negative amount", body: `{"amount":-5}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "bad currency", body: `{"amount":10,"currency":"WAT"}`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "unreadable payload", body: `nope`, wantStatus: http.StatusBadRequest, wantCode: "bad_request"},
		{name: "no campaign anywhere", body: `{"amount":10}`, wantStatus: http.StatusNotFound, wantCode: "not_found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestApp()
			rec := httptest.NewRecorder()
			a.DonationsCreate(rec, httptest.NewRequest(http.MethodPost, "/v1/donations", strings.NewReader(tc.body)))
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if code := errorCode(t, rec); code != tc.wantCode {
				t.Fatalf("code = %q, want %q", code, tc.wantCode)
			}
		})
	}
}

func TestDonationsLast(t *testing.T) {
	a := newTestApp()
	ctx := context.Background()

	rec := httptest.NewRecorder()
	a.DonationsLast(rec, httptest.NewRequest(http.MethodGet, "/v1/donations/last", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204 before any donation", rec.Code)
	}

	if _, err := a.Campaigns.CreateDraft(ctx, repo.CampaignForm{Title: "Receipted"}); err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, _, err := a.Campaigns.RecordDonation(ctx, "", 30, money.USD()); err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}

	rec = httptest.NewRecorder()
	a.DonationsLast(rec, httptest.NewRequest(http.MethodGet, "/v1/donations/last", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	receipt := decodeBody(t, rec)["receipt"].(map[string]any)
	if receipt["amount"] != 30.0 {
		t.Fatalf("amount = %v, want 30", receipt["amount"])
	}
}

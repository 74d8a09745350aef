package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"impactseed/internal/domain"
	"impactseed/internal/middleware"
	"impactseed/internal/money"
)

type donationRequest struct {
	CampaignID string  `json:"campaign_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
}

// DonationsCreate applies a donation to the selected campaign (or the one
// named by campaign_id) and writes the receipt the success page reads. The
// currency defaults from the request's detected country when the payload
// leaves it out.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}
	cur := middleware.CurrencyFromContext(r.Context())
	if req.Currency != "" {
		parsed, err := money.Parse(req.Currency)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid currency code")
			return
		}
		cur = parsed
	}
	campaign, receipt, err := a.Campaigns.RecordDonation(r.Context(), req.CampaignID, req.Amount, cur)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no campaign to donate to")
			return
		}
		a.Log.Error().Err(err).Msg("record donation")
		a.error(w, http.StatusInternalServerError, "internal", "failed to record donation")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"campaign": newCampaignView(campaign),
		"receipt":  receipt,
		"display":  cur.Format(receipt.Amount),
		"redirect": a.Redirects.DonationSuccess,
	})
}

// DonationsLast returns the most recent receipt; 204 when none exists.
func (a *App) DonationsLast(w http.ResponseWriter, r *http.Request) {
	receipt, ok, err := a.Campaigns.LastReceipt(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("load last donation")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donation")
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"receipt": receipt})
}

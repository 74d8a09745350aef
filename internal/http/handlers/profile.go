package handlers

import (
	"encoding/json"
	"net/http"

	"impactseed/internal/domain"
	"impactseed/internal/money"
)

// profileView is the profile page's view-model: the stored record plus the
// display values derived at read time, never persisted.
type profileView struct {
	domain.UserProfile
	CampaignCount  int            `json:"campaignCount"`
	DonatedDisplay string         `json:"donatedDisplay"`
	Campaigns      []campaignView `json:"campaigns"`
}

type campaignView struct {
	domain.Campaign
	PercentFunded int    `json:"percentFunded"`
	GoalDisplay   string `json:"goalDisplay"`
	RaisedDisplay string `json:"raisedDisplay"`
}

func newProfileView(p domain.UserProfile) profileView {
	view := profileView{
		UserProfile:    p,
		CampaignCount:  len(p.Campaigns),
		DonatedDisplay: money.USD().Format(p.TotalDonated),
		Campaigns:      make([]campaignView, 0, len(p.Campaigns)),
	}
	for _, c := range p.Campaigns {
		view.Campaigns = append(view.Campaigns, newCampaignView(c))
	}
	return view
}

func newCampaignView(c domain.Campaign) campaignView {
	return campaignView{
		Campaign:      c,
		PercentFunded: c.PercentFunded(),
		GoalDisplay:   money.USD().Format(c.Goal),
		RaisedDisplay: money.USD().Format(c.Raised),
	}
}

// ProfileGet loads the resident profile, synthesizing the default and
// folding in a pending draft campaign when needed.
func (a *App) ProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := a.Profiles.Load(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("load profile")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load profile")
		return
	}
	a.json(w, http.StatusOK, newProfileView(p))
}

// ProfileUpdate applies a partial edit. Fields absent from the payload keep
// their stored values; fields present replace them wholesale.
func (a *App) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	p, err := a.Profiles.Update(r.Context(), upd)
	if err != nil {
		a.Log.Error().Err(err).Msg("update profile")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update profile")
		return
	}
	a.json(w, http.StatusOK, newProfileView(p))
}

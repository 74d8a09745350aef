package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"impactseed/internal/repo"
	"impactseed/internal/scrape"
)

// flexString decodes a JSON string or number into its raw text, so forms
// may send `"goal": "5000"` and scripts `"goal": 5000` interchangeably.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(data)
	return nil
}

type campaignCreateRequest struct {
	Title    string     `json:"title"`
	Goal     flexString `json:"goal"`
	Category string     `json:"category"`
	Image    string     `json:"image"`
}

// CampaignsCreate handles the creation form. Field validation is lenient by
// contract: missing or malformed values degrade to defaults rather than
// rejecting, so the only failure mode is an unreadable payload.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	c, err := a.Campaigns.CreateDraft(r.Context(), repo.CampaignForm{
		Title:    req.Title,
		Goal:     string(req.Goal),
		Category: req.Category,
		Image:    req.Image,
	})
	if err != nil {
		a.Log.Error().Err(err).Msg("create campaign draft")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create campaign")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"campaign": newCampaignView(c),
		"redirect": a.Redirects.Verification,
	})
}

// CampaignsList returns every stored campaign, newest first.
func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Campaigns.List(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("list campaigns")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list campaigns")
		return
	}
	items := make([]campaignView, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, newCampaignView(c))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CampaignSelected returns the campaign the details page should render. No
// selection and no draft is the empty state: 204, not an error.
func (a *App) CampaignSelected(w http.ResponseWriter, r *http.Request) {
	c, ok, err := a.Campaigns.Selected(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("load selected campaign")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load campaign")
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"campaign": newCampaignView(c)})
}

type campaignSelectRequest struct {
	ID string `json:"id"`
}

// CampaignSelect records a card activation. A JSON body carries the stable
// campaign id; an HTML body is the rendered card itself, scraped into a
// best-effort record for cards that predate stable ids.
func (a *App) CampaignSelect(w http.ResponseWriter, r *http.Request) {
	if strings.Contains(r.Header.Get("Content-Type"), "html") {
		a.selectFromMarkup(w, r)
		return
	}
	var req campaignSelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "campaign id is required")
		return
	}
	c, err := a.Campaigns.Select(r.Context(), req.ID)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "campaign not found")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"campaign": newCampaignView(c)})
}

func (a *App) selectFromMarkup(w http.ResponseWriter, r *http.Request) {
	card, err := scrape.ParseCard(r.Body)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "unreadable card markup")
		return
	}
	c, err := a.Campaigns.SelectFromView(r.Context(), card.CampaignID, card.Campaign())
	if err != nil {
		a.Log.Error().Err(err).Msg("select scraped campaign")
		a.error(w, http.StatusInternalServerError, "internal", "failed to select campaign")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"campaign": newCampaignView(c)})
}

type stageImageRequest struct {
	Data string `json:"data"`
}

// UploadCampaignImage stages the creation form's image upload (a data-URI)
// for the next campaign draft.
func (a *App) UploadCampaignImage(w http.ResponseWriter, r *http.Request) {
	var req stageImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Data) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "image data is required")
		return
	}
	if err := a.Campaigns.StageImage(r.Context(), strings.TrimSpace(req.Data)); err != nil {
		a.Log.Error().Err(err).Msg("stage campaign image")
		a.error(w, http.StatusInternalServerError, "internal", "failed to stage image")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"staged": true})
}

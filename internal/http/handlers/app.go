package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"impactseed/internal/repo"
	"impactseed/internal/store"
)

// Redirects are the page targets handed back to the client after each flow.
type Redirects struct {
	Login               string
	Index               string
	Verification        string
	VerificationSuccess string
	DonationSuccess     string
}

// App bundles the handler dependencies: the record store, the repositories
// over it and the redirect targets.
type App struct {
	Log       zerolog.Logger
	Store     store.Store
	Campaigns *repo.CampaignRepo
	Profiles  *repo.ProfileRepo
	Sessions  *repo.SessionRepo
	Redirects Redirects
}

// NewApp builds the handler container over a record store.
func NewApp(log zerolog.Logger, s store.Store, redirects Redirects) *App {
	return &App{
		Log:       log,
		Store:     s,
		Campaigns: repo.NewCampaignRepo(s),
		Profiles:  repo.NewProfileRepo(s),
		Sessions:  repo.NewSessionRepo(s),
		Redirects: redirects,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"impactseed/internal/domain"
)

type sessionRequest struct {
	Name       string `json:"name"`
	IsLoggedIn *bool  `json:"isLoggedIn"`
}

// SessionCreate writes the auth-session record. It stands in for the login
// page of the original: there is no credential check in this demo.
func (a *App) SessionCreate(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	sess := domain.Session{Name: req.Name, IsLoggedIn: true}
	if req.IsLoggedIn != nil {
		sess.IsLoggedIn = *req.IsLoggedIn
	}
	if err := a.Sessions.Save(r.Context(), sess); err != nil {
		a.Log.Error().Err(err).Msg("save session")
		a.error(w, http.StatusInternalServerError, "internal", "failed to save session")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"session": sess})
}

// SessionDelete is logout: the session, profile and last receipt records are
// cleared and the client is pointed back at the index page.
func (a *App) SessionDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Sessions.Clear(r.Context()); err != nil {
		a.Log.Error().Err(err).Msg("clear session")
		a.error(w, http.StatusInternalServerError, "internal", "failed to clear session")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"redirect": a.Redirects.Index})
}

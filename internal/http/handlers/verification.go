package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"impactseed/internal/domain"
	"impactseed/internal/verify"
)

// VerificationSubmit validates the identity-verification form. Failures
// abort with the message the pages alert; nothing is persisted either way,
// passing simply unlocks the success redirect.
func (a *App) VerificationSubmit(w http.ResponseWriter, r *http.Request) {
	var sub verify.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := verify.Validate(sub); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		a.Log.Error().Err(err).Msg("validate verification")
		a.error(w, http.StatusInternalServerError, "internal", "failed to validate submission")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"status":   "verified",
		"redirect": a.Redirects.VerificationSuccess,
	})
}

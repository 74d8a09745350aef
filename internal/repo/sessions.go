package repo

import (
	"context"

	"impactseed/internal/domain"
	"impactseed/internal/store"
)

// SessionRepo reads the auth-session record and gates page access on it.
type SessionRepo struct {
	store store.Store
}

// NewSessionRepo wires a session repository over the record store.
func NewSessionRepo(s store.Store) *SessionRepo {
	return &SessionRepo{store: s}
}

// Current returns the stored session. A record holding unparsable JSON is
// treated as logged out and removed so it cannot keep failing on every page.
func (r *SessionRepo) Current(ctx context.Context) (domain.Session, bool) {
	data, err := r.store.Get(ctx, store.KindSession, store.LocalID)
	if err != nil {
		return domain.Session{}, false
	}
	var sess domain.Session
	if !store.DecodeJSON(data, &sess) {
		_ = r.store.Update(ctx, func(tx store.Tx) error {
			return tx.Delete(store.KindSession, store.LocalID)
		})
		return domain.Session{}, false
	}
	return sess, true
}

// IsAuthenticated reports whether a logged-in session exists.
func (r *SessionRepo) IsAuthenticated(ctx context.Context) bool {
	sess, ok := r.Current(ctx)
	return ok && sess.IsLoggedIn
}

// HasSession reports whether a readable session record exists at all. The
// page gate keys off presence, not the logged-in flag: a logged-out record
// still reaches the page, which then synthesizes a profile from it.
func (r *SessionRepo) HasSession(ctx context.Context) bool {
	_, ok := r.Current(ctx)
	return ok
}

// HasProfile reports whether a stored profile exists. Gated pages accept a
// resident profile in place of a session, the legacy guard behavior.
func (r *SessionRepo) HasProfile(ctx context.Context) bool {
	var p domain.UserProfile
	ok, err := store.GetJSON(ctx, r.store, store.KindProfile, store.LocalID, &p)
	return err == nil && ok
}

// Save writes the session record. It belongs to the login flow; the rest of
// the service only reads sessions.
func (r *SessionRepo) Save(ctx context.Context, sess domain.Session) error {
	return r.store.Update(ctx, func(tx store.Tx) error {
		return store.PutJSON(tx, store.KindSession, store.LocalID, sess)
	})
}

// Clear removes the session together with the profile and last receipt, the
// logout semantics of the original.
func (r *SessionRepo) Clear(ctx context.Context) error {
	return r.store.Update(ctx, func(tx store.Tx) error {
		if err := tx.Delete(store.KindSession, store.LocalID); err != nil {
			return err
		}
		if err := tx.Delete(store.KindProfile, store.LocalID); err != nil {
			return err
		}
		return tx.Delete(store.KindReceipt, store.ReceiptLastID)
	})
}

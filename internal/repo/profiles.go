package repo

import (
	"context"

	"impactseed/internal/domain"
	"impactseed/internal/store"
)

// ProfileRepo manages the resident user profile.
type ProfileRepo struct {
	store store.Store
}

// NewProfileRepo wires a profile repository over the record store.
func NewProfileRepo(s store.Store) *ProfileRepo {
	return &ProfileRepo{store: s}
}

// Load returns the stored profile. When none exists one is synthesized from
// the defaults, seeded with the session's name if a session is present, and
// persisted. Load also folds a pending draft campaign into the collection
// (the promotion step the profile page performs) atomically with the read,
// and promotion is idempotent, so reloading cannot double-insert.
func (r *ProfileRepo) Load(ctx context.Context) (domain.UserProfile, error) {
	var out domain.UserProfile
	err := r.store.Update(ctx, func(tx store.Tx) error {
		p, ok := getProfile(tx)
		dirty := !ok
		if !ok {
			p = domain.DefaultProfile()
			if sess, ok := getSession(tx); ok && sess.Name != "" {
				p.FullName = sess.Name
			}
		}
		if draft, ok := resolveCampaign(tx, store.RefDraft); ok {
			if merged, changed := domain.PromoteDraft(p, draft); changed {
				p = merged
				dirty = true
			}
		}
		if dirty {
			if err := putProfile(tx, p); err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return out, nil
}

// Update shallow-merges upd over the stored profile (synthesizing the
// default first when nothing is stored) and persists the result. Fields set
// in upd win wholesale; in particular a provided campaign collection
// replaces the stored one rather than merging element-wise.
func (r *ProfileRepo) Update(ctx context.Context, upd domain.ProfileUpdate) (domain.UserProfile, error) {
	var out domain.UserProfile
	err := r.store.Update(ctx, func(tx store.Tx) error {
		p, ok := getProfile(tx)
		if !ok {
			p = domain.DefaultProfile()
			if sess, ok := getSession(tx); ok && sess.Name != "" {
				p.FullName = sess.Name
			}
		}
		p = p.Merge(upd)
		out = p
		return putProfile(tx, p)
	})
	if err != nil {
		return domain.UserProfile{}, err
	}
	return out, nil
}

// Package repo implements the operations pages perform against the record
// store: campaign creation, promotion, selection and donations, profile
// load/merge, and the session guard. All multi-record writes go through one
// store transaction.
package repo

import (
	"impactseed/internal/domain"
	"impactseed/internal/store"
)

// Transaction-scoped record accessors. Reads fail soft: a missing or
// malformed record reports absent, it never aborts the caller.

func getProfile(tx store.Tx) (domain.UserProfile, bool) {
	data, err := tx.Get(store.KindProfile, store.LocalID)
	if err != nil {
		return domain.UserProfile{}, false
	}
	var p domain.UserProfile
	return p, store.DecodeJSON(data, &p)
}

func putProfile(tx store.Tx, p domain.UserProfile) error {
	return store.PutJSON(tx, store.KindProfile, store.LocalID, p)
}

func getSession(tx store.Tx) (domain.Session, bool) {
	data, err := tx.Get(store.KindSession, store.LocalID)
	if err != nil {
		return domain.Session{}, false
	}
	var s domain.Session
	return s, store.DecodeJSON(data, &s)
}

func getCampaign(tx store.Tx, id string) (domain.Campaign, bool) {
	data, err := tx.Get(store.KindCampaign, id)
	if err != nil {
		return domain.Campaign{}, false
	}
	var c domain.Campaign
	return c, store.DecodeJSON(data, &c)
}

func putCampaign(tx store.Tx, c domain.Campaign) error {
	return store.PutJSON(tx, store.KindCampaign, c.ID, c)
}

func getRef(tx store.Tx, name string) (string, bool) {
	data, err := tx.Get(store.KindRef, name)
	if err != nil {
		return "", false
	}
	var ref store.Ref
	if !store.DecodeJSON(data, &ref) || ref.CampaignID == "" {
		return "", false
	}
	return ref.CampaignID, true
}

func putRef(tx store.Tx, name, campaignID string) error {
	return store.PutJSON(tx, store.KindRef, name, store.Ref{CampaignID: campaignID})
}

// resolveCampaign follows a ref to its campaign record.
func resolveCampaign(tx store.Tx, ref string) (domain.Campaign, bool) {
	id, ok := getRef(tx, ref)
	if !ok {
		return domain.Campaign{}, false
	}
	return getCampaign(tx, id)
}

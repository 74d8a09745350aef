package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"impactseed/internal/domain"
)

// Slot names used by the original browser build. An exported localStorage
// dump keyed by these names can be folded into the record store once, so a
// demo carries its state over to the replacement layout.
const (
	LegacySlotProfile     = "impactSeedUser"
	LegacySlotSession     = "impactSeed_user"
	LegacySlotDraft       = "impactSeed_campaign"
	LegacySlotSelected    = "impactSeed_currentCampaign"
	LegacySlotStagedImage = "tempCampaignImage"
	LegacySlotReceipt     = "lastDonation"
)

// ImportLegacy reads a localStorage export (a JSON object of slot name to
// value; values may be embedded JSON or JSON-encoded strings wrapping it, the
// way localStorage serializes) and writes the equivalent records. Campaigns
// gain generated ids; when the draft and selected slots hold the same
// payload, both refs point at one record, matching how the original wrote
// the same object to both keys. Malformed slots are skipped, and slots whose
// target record already exists are left alone.
func ImportLegacy(ctx context.Context, s Store, r io.Reader) error {
	var slots map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&slots); err != nil {
		return fmt.Errorf("decode legacy export: %w", err)
	}
	return s.Update(ctx, func(tx Tx) error {
		importLegacyProfile(tx, slotBytes(slots[LegacySlotProfile]))
		importLegacySession(tx, slotBytes(slots[LegacySlotSession]))
		importLegacyCampaigns(tx, slotBytes(slots[LegacySlotDraft]), slotBytes(slots[LegacySlotSelected]))
		importLegacyStagedImage(tx, slots[LegacySlotStagedImage])
		importLegacyReceipt(tx, slotBytes(slots[LegacySlotReceipt]))
		return nil
	})
}

// slotBytes unwraps one level of string encoding: localStorage exports
// usually carry `"{\"title\":...}"`, direct dumps carry the object itself.
func slotBytes(raw json.RawMessage) []byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil
		}
		return []byte(inner)
	}
	return raw
}

func recordAbsent(tx Tx, kind, id string) bool {
	_, err := tx.Get(kind, id)
	return err != nil
}

func importLegacyProfile(tx Tx, data []byte) {
	if len(data) == 0 || !recordAbsent(tx, KindProfile, LocalID) {
		return
	}
	var legacy legacyProfile
	if !DecodeJSON(data, &legacy) {
		return
	}
	_ = PutJSON(tx, KindProfile, LocalID, legacy.profile())
}

func importLegacySession(tx Tx, data []byte) {
	if len(data) == 0 || !recordAbsent(tx, KindSession, LocalID) {
		return
	}
	var sess domain.Session
	if !DecodeJSON(data, &sess) {
		return
	}
	_ = PutJSON(tx, KindSession, LocalID, sess)
}

func importLegacyCampaigns(tx Tx, draft, selected []byte) {
	draftID := importLegacyCampaign(tx, draft, RefDraft, domain.CampaignStatusDraft)
	if len(selected) > 0 && bytes.Equal(draft, selected) && draftID != "" {
		if recordAbsent(tx, KindRef, RefSelected) {
			_ = PutJSON(tx, KindRef, RefSelected, Ref{CampaignID: draftID})
		}
		return
	}
	importLegacyCampaign(tx, selected, RefSelected, domain.CampaignStatusPublished)
}

func importLegacyCampaign(tx Tx, data []byte, ref string, status domain.CampaignStatus) string {
	if len(data) == 0 || !recordAbsent(tx, KindRef, ref) {
		return ""
	}
	var legacy legacyCampaign
	if !DecodeJSON(data, &legacy) {
		return ""
	}
	c := legacy.campaign()
	c.ID = uuid.NewString()
	if c.Status == "" {
		c.Status = status
	}
	if err := PutJSON(tx, KindCampaign, c.ID, c); err != nil {
		return ""
	}
	_ = PutJSON(tx, KindRef, ref, Ref{CampaignID: c.ID})
	return c.ID
}

func importLegacyStagedImage(tx Tx, raw json.RawMessage) {
	// The staged image slot held a bare data-URI string, not JSON.
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !recordAbsent(tx, KindUpload, UploadCampaignImage) {
		return
	}
	var uri string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &uri); err != nil {
			return
		}
	} else {
		uri = string(raw)
	}
	if uri == "" {
		return
	}
	_ = PutJSON(tx, KindUpload, UploadCampaignImage, uri)
}

func importLegacyReceipt(tx Tx, data []byte) {
	if len(data) == 0 || !recordAbsent(tx, KindReceipt, ReceiptLastID) {
		return
	}
	var receipt domain.DonationReceipt
	if !DecodeJSON(data, &receipt) {
		return
	}
	_ = PutJSON(tx, KindReceipt, ReceiptLastID, receipt)
}

// looseNumber decodes a JSON number, or a number-ish string such as "5000"
// or "2,500", without ever failing the surrounding decode. Anything
// unreadable just stays unset.
type looseNumber struct {
	val float64
	ok  bool
}

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if json.Unmarshal(data, &s) != nil {
			return nil
		}
		v := domain.ParseAmount(s, math.NaN())
		if !math.IsNaN(v) {
			n.val, n.ok = v, true
		}
		return nil
	}
	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		n.val, n.ok = v, true
	}
	return nil
}

func (n looseNumber) or(fallback float64) float64 {
	if n.ok {
		return n.val
	}
	return fallback
}

// legacyCampaign tolerates the loose typing of the original records, where
// numeric fields were written as strings or numbers interchangeably.
type legacyCampaign struct {
	Title       string      `json:"title"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Goal        looseNumber `json:"goal"`
	Raised      looseNumber `json:"raised"`
	Backers     looseNumber `json:"backers"`
	DaysLeft    looseNumber `json:"daysLeft"`
	Status      string      `json:"status"`
	Description string      `json:"description"`
	Timestamp   string      `json:"timestamp"`
}

func (l legacyCampaign) campaign() domain.Campaign {
	c := domain.Campaign{
		Title:       l.Title,
		Image:       l.Image,
		Category:    l.Category,
		Goal:        l.Goal.or(0),
		Raised:      l.Raised.or(0),
		Backers:     int(l.Backers.or(0)),
		DaysLeft:    int(l.DaysLeft.or(domain.DefaultDaysLeft)),
		Status:      domain.CampaignStatus(l.Status),
		Description: l.Description,
	}
	if ts, err := time.Parse(time.RFC3339, l.Timestamp); err == nil {
		c.Timestamp = ts
	}
	if c.Title == "" {
		c.Title = domain.DefaultTitle
	}
	if c.Category == "" {
		c.Category = domain.DefaultCategory
	}
	return c
}

type legacyProfile struct {
	FullName     string            `json:"fullName"`
	Bio          string            `json:"bio"`
	Location     string            `json:"location"`
	ProfileImage string            `json:"profileImage"`
	TotalDonated looseNumber       `json:"totalDonated"`
	ImpactScore  looseNumber       `json:"impactScore"`
	Campaigns    []json.RawMessage `json:"campaigns"`
}

func (l legacyProfile) profile() domain.UserProfile {
	p := domain.DefaultProfile()
	if l.FullName != "" {
		p.FullName = l.FullName
	}
	if l.Bio != "" {
		p.Bio = l.Bio
	}
	if l.Location != "" {
		p.Location = l.Location
	}
	if l.ProfileImage != "" {
		p.ProfileImage = l.ProfileImage
	}
	p.TotalDonated = l.TotalDonated.or(0)
	p.ImpactScore = int(l.ImpactScore.or(0))
	for _, raw := range l.Campaigns {
		var legacy legacyCampaign
		if !DecodeJSON(raw, &legacy) {
			continue
		}
		c := legacy.campaign()
		c.ID = uuid.NewString()
		if c.Status == "" {
			c.Status = domain.CampaignStatusPublished
		}
		p.Campaigns = append(p.Campaigns, c)
	}
	return p
}

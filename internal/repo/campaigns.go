package repo

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"impactseed/internal/domain"
	"impactseed/internal/money"
	"impactseed/internal/store"
)

// CampaignRepo creates, locates, selects and mutates campaign records.
type CampaignRepo struct {
	store store.Store
	now   func() time.Time
	newID func() string
}

// NewCampaignRepo wires a campaign repository over the record store.
func NewCampaignRepo(s store.Store) *CampaignRepo {
	return &CampaignRepo{store: s, now: time.Now, newID: uuid.NewString}
}

// CampaignForm is the raw campaign creation input. Fields arrive as rendered
// by the form and are parsed leniently; nothing in it can make CreateDraft
// reject.
type CampaignForm struct {
	Title    string
	Goal     string
	Category string
	Image    string
}

// CreateDraft builds a campaign from form input, degrading missing or
// unparsable fields to their defaults, and records it as both the user's
// draft and the current selection in a single transaction.
func (r *CampaignRepo) CreateDraft(ctx context.Context, form CampaignForm) (domain.Campaign, error) {
	c := domain.Campaign{
		ID:        r.newID(),
		Title:     orDefault(form.Title, domain.DefaultTitle),
		Goal:      domain.ParseAmount(form.Goal, 0),
		Category:  orDefault(form.Category, domain.DefaultCategory),
		Image:     strings.TrimSpace(form.Image),
		DaysLeft:  domain.DefaultDaysLeft,
		Status:    domain.CampaignStatusDraft,
		Timestamp: r.now().UTC(),
	}
	err := r.store.Update(ctx, func(tx store.Tx) error {
		if c.Image == "" {
			if staged, ok := getStagedImage(tx); ok {
				c.Image = staged
			}
		}
		if c.Image == "" {
			c.Image = domain.StockCampaignImage
		}
		if err := putCampaign(tx, c); err != nil {
			return err
		}
		if err := putRef(tx, store.RefDraft, c.ID); err != nil {
			return err
		}
		return putRef(tx, store.RefSelected, c.ID)
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

// StageImage stores the uploaded campaign image (a data-URI or URL) for the
// next CreateDraft to pick up when the form itself carries no image.
func (r *CampaignRepo) StageImage(ctx context.Context, uri string) error {
	return r.store.Update(ctx, func(tx store.Tx) error {
		return store.PutJSON(tx, store.KindUpload, store.UploadCampaignImage, uri)
	})
}

func getStagedImage(tx store.Tx) (string, bool) {
	data, err := tx.Get(store.KindUpload, store.UploadCampaignImage)
	if err != nil {
		return "", false
	}
	var uri string
	if !store.DecodeJSON(data, &uri) || uri == "" {
		return "", false
	}
	return uri, true
}

// Get returns the campaign stored under id.
func (r *CampaignRepo) Get(ctx context.Context, id string) (domain.Campaign, error) {
	var c domain.Campaign
	ok, err := store.GetJSON(ctx, r.store, store.KindCampaign, id, &c)
	if err != nil {
		return domain.Campaign{}, err
	}
	if !ok {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return c, nil
}

// List returns every stored campaign, most recently written first.
func (r *CampaignRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	records, err := r.store.List(ctx, store.KindCampaign)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Campaign, 0, len(records))
	for _, rec := range records {
		var c domain.Campaign
		if store.DecodeJSON(rec.Data, &c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Selected returns the campaign the details page should show: the current
// selection, falling back to the last created draft when nothing was
// selected yet.
func (r *CampaignRepo) Selected(ctx context.Context) (domain.Campaign, bool, error) {
	var c domain.Campaign
	found := false
	err := r.store.Update(ctx, func(tx store.Tx) error {
		if got, ok := resolveCampaign(tx, store.RefSelected); ok {
			c, found = got, true
			return nil
		}
		if got, ok := resolveCampaign(tx, store.RefDraft); ok {
			c, found = got, true
		}
		return nil
	})
	return c, found, err
}

// Select makes the campaign stored under id the current selection.
func (r *CampaignRepo) Select(ctx context.Context, id string) (domain.Campaign, error) {
	var c domain.Campaign
	err := r.store.Update(ctx, func(tx store.Tx) error {
		got, ok := getCampaign(tx, id)
		if !ok {
			return domain.ErrNotFound
		}
		c = got
		return putRef(tx, store.RefSelected, id)
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

// SelectFromView records a campaign reconstructed from rendered markup as
// the current selection. When the markup carried a stable id and that record
// exists, the stored record wins and the scraped reconstruction is ignored;
// otherwise the reconstruction is persisted under a fresh id so later
// donations have an authoritative record to apply to.
func (r *CampaignRepo) SelectFromView(ctx context.Context, id string, scraped domain.Campaign) (domain.Campaign, error) {
	if id != "" {
		if c, err := r.Select(ctx, id); err == nil {
			return c, nil
		}
	}
	scraped.ID = r.newID()
	if scraped.Timestamp.IsZero() {
		scraped.Timestamp = r.now().UTC()
	}
	err := r.store.Update(ctx, func(tx store.Tx) error {
		if err := putCampaign(tx, scraped); err != nil {
			return err
		}
		return putRef(tx, store.RefSelected, scraped.ID)
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return scraped, nil
}

// RecordDonation applies a donation to the authoritative campaign record:
// raised grows by amount as-is (amounts are not converted between
// currencies, a documented limitation of the flow) and the backer count by
// one. The profile's donated total is updated when a profile exists, and the
// receipt for the success page is written in the same transaction. An empty
// campaignID resolves through the selected then draft refs.
func (r *CampaignRepo) RecordDonation(ctx context.Context, campaignID string, amount float64, cur money.Currency) (domain.Campaign, domain.DonationReceipt, error) {
	receipt := domain.DonationReceipt{
		Amount:    amount,
		Currency:  cur.Code,
		Symbol:    cur.Symbol,
		Timestamp: r.now().UTC(),
	}
	var updated domain.Campaign
	err := r.store.Update(ctx, func(tx store.Tx) error {
		c, ok := r.donationTarget(tx, campaignID)
		if !ok {
			return domain.ErrNotFound
		}
		c.Raised = math.Max(0, c.Raised) + amount
		c.Backers++
		if err := putCampaign(tx, c); err != nil {
			return err
		}
		if p, ok := getProfile(tx); ok {
			p.TotalDonated += amount
			if err := putProfile(tx, p); err != nil {
				return err
			}
		}
		updated = c
		return store.PutJSON(tx, store.KindReceipt, store.ReceiptLastID, receipt)
	})
	if err != nil {
		return domain.Campaign{}, domain.DonationReceipt{}, err
	}
	return updated, receipt, nil
}

func (r *CampaignRepo) donationTarget(tx store.Tx, campaignID string) (domain.Campaign, bool) {
	if campaignID != "" {
		return getCampaign(tx, campaignID)
	}
	if c, ok := resolveCampaign(tx, store.RefSelected); ok {
		return c, true
	}
	return resolveCampaign(tx, store.RefDraft)
}

// LastReceipt returns the most recent donation receipt, if any.
func (r *CampaignRepo) LastReceipt(ctx context.Context) (domain.DonationReceipt, bool, error) {
	var receipt domain.DonationReceipt
	ok, err := store.GetJSON(ctx, r.store, store.KindReceipt, store.ReceiptLastID, &receipt)
	return receipt, ok, err
}

func orDefault(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

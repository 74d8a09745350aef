package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"impactseed/internal/domain"
	"impactseed/internal/money"
	"impactseed/internal/store"
)

func newCampaignRepo(s store.Store) *CampaignRepo {
	r := NewCampaignRepo(s)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	n := 0
	r.newID = func() string {
		n++
		return fmtID(n)
	}
	return r
}

func fmtID(n int) string {
	return "id-" + string(rune('0'+n))
}

func TestCreateDraftDefaults(t *testing.T) {
	tests := []struct {
		name string
		form CampaignForm
		want domain.Campaign
	}{
		{
			name: "empty form",
			form: CampaignForm{},
			want: domain.Campaign{
				Title:    domain.DefaultTitle,
				Category: domain.DefaultCategory,
				Image:    domain.StockCampaignImage,
				Goal:     0,
				DaysLeft: domain.DefaultDaysLeft,
				Status:   domain.CampaignStatusDraft,
			},
		},
		{
			name: "filled form",
			form: CampaignForm{Title: "Clean Water", Goal: "5000", Category: "Health", Image: "http://img/x.png"},
			want: domain.Campaign{
				Title:    "Clean Water",
				Category: "Health",
				Image:    "http://img/x.png",
				Goal:     5000,
				DaysLeft: domain.DefaultDaysLeft,
				Status:   domain.CampaignStatusDraft,
			},
		},
		{
			name: "unparsable goal degrades to zero",
			form: CampaignForm{Title: "X", Goal: "a lot"},
			want: domain.Campaign{
				Title:    "X",
				Category: domain.DefaultCategory,
				Image:    domain.StockCampaignImage,
				Goal:     0,
				DaysLeft: domain.DefaultDaysLeft,
				Status:   domain.CampaignStatusDraft,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newCampaignRepo(store.NewMemory())
			got, err := r.CreateDraft(context.Background(), tc.form)
			if err != nil {
				t.Fatalf("CreateDraft: %v", err)
			}
			if got.ID == "" {
				t.Fatal("expected a generated id")
			}
			if got.Title != tc.want.Title || got.Category != tc.want.Category ||
				got.Image != tc.want.Image || got.Goal != tc.want.Goal ||
				got.DaysLeft != tc.want.DaysLeft || got.Status != tc.want.Status {
				t.Fatalf("campaign = %+v, want fields of %+v", got, tc.want)
			}
			if got.Raised != 0 || got.Backers != 0 {
				t.Fatalf("new draft should start at zero, got raised=%v backers=%d", got.Raised, got.Backers)
			}
		})
	}
}

func TestCreateDraftUsesStagedImage(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	ctx := context.Background()
	if err := r.StageImage(ctx, "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("StageImage: %v", err)
	}
	c, err := r.CreateDraft(ctx, CampaignForm{Title: "Solar Roof"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if c.Image != "data:image/png;base64,AAAA" {
		t.Fatalf("image = %q, want the staged upload", c.Image)
	}

	// A form image beats the staged one.
	c2, err := r.CreateDraft(ctx, CampaignForm{Title: "Other", Image: "http://img/y.png"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if c2.Image != "http://img/y.png" {
		t.Fatalf("image = %q, want the form image", c2.Image)
	}
}

func TestCreateDraftSetsRefs(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	ctx := context.Background()
	c, err := r.CreateDraft(ctx, CampaignForm{Title: "Reforest"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	sel, ok, err := r.Selected(ctx)
	if err != nil || !ok {
		t.Fatalf("Selected: ok=%v err=%v", ok, err)
	}
	if sel.ID != c.ID {
		t.Fatalf("selected id = %q, want %q", sel.ID, c.ID)
	}
}

func TestSelectedFallsBackToDraft(t *testing.T) {
	m := store.NewMemory()
	r := newCampaignRepo(m)
	ctx := context.Background()
	c, err := r.CreateDraft(ctx, CampaignForm{Title: "Fallback"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	// Drop the selected ref; the draft ref should still resolve.
	err = m.Update(ctx, func(tx store.Tx) error {
		return tx.Delete(store.KindRef, store.RefSelected)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	sel, ok, err := r.Selected(ctx)
	if err != nil || !ok {
		t.Fatalf("Selected: ok=%v err=%v", ok, err)
	}
	if sel.ID != c.ID {
		t.Fatalf("selected id = %q, want draft %q", sel.ID, c.ID)
	}
}

func TestSelectedEmptyState(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	_, ok, err := r.Selected(context.Background())
	if err != nil {
		t.Fatalf("Selected: %v", err)
	}
	if ok {
		t.Fatal("expected no selection on an empty store")
	}
}

func TestSelectUnknownID(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	_, err := r.Select(context.Background(), "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSelectFromViewPrefersStoredRecord(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	ctx := context.Background()
	stored, err := r.CreateDraft(ctx, CampaignForm{Title: "Stored Truth", Goal: "8000"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	scraped := domain.Campaign{Title: "Scraped Copy", Goal: 10000}
	got, err := r.SelectFromView(ctx, stored.ID, scraped)
	if err != nil {
		t.Fatalf("SelectFromView: %v", err)
	}
	if got.ID != stored.ID || got.Title != "Stored Truth" || got.Goal != 8000 {
		t.Fatalf("got %+v, want the stored record to win", got)
	}
}

func TestSelectFromViewPersistsScrapedFallback(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	ctx := context.Background()
	scraped := domain.Campaign{Title: "From Markup", Goal: 10000, Raised: 4000, Status: domain.CampaignStatusPublished}
	got, err := r.SelectFromView(ctx, "unknown-id", scraped)
	if err != nil {
		t.Fatalf("SelectFromView: %v", err)
	}
	if got.ID == "" {
		t.Fatal("expected a fresh id for the scraped campaign")
	}
	again, err := r.Get(ctx, got.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Title != "From Markup" || again.Raised != 4000 {
		t.Fatalf("persisted = %+v, want the scraped fields", again)
	}
	sel, ok, err := r.Selected(ctx)
	if err != nil || !ok || sel.ID != got.ID {
		t.Fatalf("Selected = (%+v, %v, %v), want the scraped record", sel, ok, err)
	}
}

func TestRecordDonation(t *testing.T) {
	m := store.NewMemory()
	r := newCampaignRepo(m)
	ctx := context.Background()
	c, err := r.CreateDraft(ctx, CampaignForm{Title: "Water Wells", Goal: "1000"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	err = m.Update(ctx, func(tx store.Tx) error {
		c.Raised = 200
		return store.PutJSON(tx, store.KindCampaign, c.ID, c)
	})
	if err != nil {
		t.Fatalf("seed raised: %v", err)
	}

	updated, receipt, err := r.RecordDonation(ctx, c.ID, 75, money.USD())
	if err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	if updated.Raised != 275 {
		t.Fatalf("raised = %v, want 275", updated.Raised)
	}
	if updated.Backers != 1 {
		t.Fatalf("backers = %d, want 1", updated.Backers)
	}
	if receipt.Amount != 75 || receipt.Currency != "USD" || receipt.Symbol != "$" {
		t.Fatalf("receipt = %+v", receipt)
	}

	last, ok, err := r.LastReceipt(ctx)
	if err != nil || !ok {
		t.Fatalf("LastReceipt: ok=%v err=%v", ok, err)
	}
	if last.Amount != 75 {
		t.Fatalf("last receipt amount = %v, want 75", last.Amount)
	}
}

func TestRecordDonationNegativeRaisedClamped(t *testing.T) {
	m := store.NewMemory()
	r := newCampaignRepo(m)
	ctx := context.Background()
	c, err := r.CreateDraft(ctx, CampaignForm{Title: "Corrupt Counter"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	err = m.Update(ctx, func(tx store.Tx) error {
		c.Raised = -50
		return store.PutJSON(tx, store.KindCampaign, c.ID, c)
	})
	if err != nil {
		t.Fatalf("seed raised: %v", err)
	}
	updated, _, err := r.RecordDonation(ctx, c.ID, 10, money.USD())
	if err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	if updated.Raised != 10 {
		t.Fatalf("raised = %v, want 10 (negative baseline ignored)", updated.Raised)
	}
}

func TestRecordDonationResolvesSelection(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	ctx := context.Background()
	c, err := r.CreateDraft(ctx, CampaignForm{Title: "Implicit Target"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	updated, _, err := r.RecordDonation(ctx, "", 25, money.USD())
	if err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	if updated.ID != c.ID {
		t.Fatalf("donation landed on %q, want the selected campaign %q", updated.ID, c.ID)
	}
}

func TestRecordDonationUpdatesProfileTotal(t *testing.T) {
	m := store.NewMemory()
	r := newCampaignRepo(m)
	profiles := NewProfileRepo(m)
	ctx := context.Background()
	if _, err := profiles.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := r.CreateDraft(ctx, CampaignForm{Title: "Tracked"}); err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, _, err := r.RecordDonation(ctx, "", 40, money.USD()); err != nil {
		t.Fatalf("RecordDonation: %v", err)
	}
	p, err := profiles.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.TotalDonated != 40 {
		t.Fatalf("totalDonated = %v, want 40", p.TotalDonated)
	}
}

func TestRecordDonationNoTarget(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	_, _, err := r.RecordDonation(context.Background(), "", 10, money.USD())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLastReceiptEmpty(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	_, ok, err := r.LastReceipt(context.Background())
	if err != nil {
		t.Fatalf("LastReceipt: %v", err)
	}
	if ok {
		t.Fatal("expected no receipt on an empty store")
	}
}

func TestListNewestFirst(t *testing.T) {
	r := newCampaignRepo(store.NewMemory())
	ctx := context.Background()
	first, err := r.CreateDraft(ctx, CampaignForm{Title: "First"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	second, err := r.CreateDraft(ctx, CampaignForm{Title: "Second"})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	got, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("order = [%s %s], want newest first", got[0].Title, got[1].Title)
	}
}

package domain

// UserProfile is the resident account record: identity fields plus the
// embedded campaign collection, newest campaign first.
type UserProfile struct {
	FullName     string     `json:"fullName"`
	Bio          string     `json:"bio"`
	Location     string     `json:"location"`
	ProfileImage string     `json:"profileImage"`
	TotalDonated float64    `json:"totalDonated"`
	ImpactScore  int        `json:"impactScore"`
	Campaigns    []Campaign `json:"campaigns"`
}

// DefaultProfile returns the profile synthesized on first load when no record
// is stored yet.
func DefaultProfile() UserProfile {
	return UserProfile{
		FullName:     "New User",
		Bio:          "I am ready to make an impact.",
		Location:     "Global",
		ProfileImage: "https://ui-avatars.com/api/?name=New+User&background=0f766e&color=fff",
		Campaigns:    []Campaign{},
	}
}

// ProfileUpdate carries a partial profile edit. Nil fields are left untouched
// by Merge; set fields win wholesale, including Campaigns, which replaces the
// stored collection rather than merging element-wise.
type ProfileUpdate struct {
	FullName     *string     `json:"fullName"`
	Bio          *string     `json:"bio"`
	Location     *string     `json:"location"`
	ProfileImage *string     `json:"profileImage"`
	TotalDonated *float64    `json:"totalDonated"`
	ImpactScore  *int        `json:"impactScore"`
	Campaigns    *[]Campaign `json:"campaigns"`
}

// Merge applies a shallow merge of upd over p and returns the result.
func (p UserProfile) Merge(upd ProfileUpdate) UserProfile {
	if upd.FullName != nil {
		p.FullName = *upd.FullName
	}
	if upd.Bio != nil {
		p.Bio = *upd.Bio
	}
	if upd.Location != nil {
		p.Location = *upd.Location
	}
	if upd.ProfileImage != nil {
		p.ProfileImage = *upd.ProfileImage
	}
	if upd.TotalDonated != nil {
		p.TotalDonated = *upd.TotalDonated
	}
	if upd.ImpactScore != nil {
		p.ImpactScore = *upd.ImpactScore
	}
	if upd.Campaigns != nil {
		p.Campaigns = *upd.Campaigns
	}
	return p
}

// PromoteDraft folds a draft campaign into the profile's collection. The
// promoted copy is published with progress reset, prepended so the newest
// campaign renders first, and the impact score grows by ImpactPerCampaign.
// Duplicate detection is by exact title match, so repeating the promotion
// with the same draft is a no-op; the second return reports whether the
// profile changed.
func PromoteDraft(p UserProfile, draft Campaign) (UserProfile, bool) {
	for _, c := range p.Campaigns {
		if c.Title == draft.Title {
			return p, false
		}
	}
	published := draft
	published.Status = CampaignStatusPublished
	published.Raised = 0
	published.Backers = 0
	published.DaysLeft = DefaultDaysLeft
	p.Campaigns = append([]Campaign{published}, p.Campaigns...)
	p.ImpactScore += ImpactPerCampaign
	return p, true
}

package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CampaignStatus enumerates the lifecycle states of a campaign record.
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusPublished CampaignStatus = "published"
)

// Defaults applied when form or scraped input is missing or unparsable.
const (
	DefaultTitle        = "Untitled Campaign"
	DefaultCategory     = "General"
	DefaultDaysLeft     = 30
	DefaultGoalEstimate = 10000
	StockCampaignImage  = "https://images.unsplash.com/photo-1542601906990-b4d3fb7d5b1e?auto=format&fit=crop&q=80&w=1000"
)

// ImpactPerCampaign is added to a profile's impact score when a campaign is
// promoted into its collection.
const ImpactPerCampaign = 10

// Campaign represents a fundraising campaign record.
type Campaign struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Image       string         `json:"image"`
	Category    string         `json:"category"`
	Goal        float64        `json:"goal"`
	Raised      float64        `json:"raised"`
	Backers     int            `json:"backers"`
	DaysLeft    int            `json:"daysLeft"`
	Status      CampaignStatus `json:"status"`
	Description string         `json:"description,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// PercentFunded returns the funding progress as a whole percentage clamped to
// [0, 100]. A non-positive goal always reports 0.
func PercentFunded(raised, goal float64) int {
	if goal <= 0 {
		return 0
	}
	p := int(math.Round(raised / goal * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// PercentFunded reports the campaign's funding progress.
func (c Campaign) PercentFunded() int {
	return PercentFunded(c.Raised, c.Goal)
}

// ParseAmount leniently parses a monetary amount from raw form or scraped
// input. Thousands separators are dropped and any trailing text ignored;
// input without a leading number resolves to fallback, it never fails.
func ParseAmount(s string, fallback float64) float64 {
	num, ok := leadingNumber(s)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return fallback
	}
	return v
}

// ParseCount is ParseAmount for non-negative integer counts such as backers
// or days left.
func ParseCount(s string, fallback int) int {
	num, ok := leadingNumber(s)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return int(v)
}

// leadingNumber extracts the numeric prefix of s after stripping thousands
// separators, mirroring how parseFloat/parseInt read rendered strings like
// "1,240 backers".
func leadingNumber(s string) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	i := 0
	seenDigit := false
	seenDot := false
	for i < len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && i == 0:
		default:
			if !seenDigit {
				return "", false
			}
			return s[:i], true
		}
		i++
	}
	if !seenDigit {
		return "", false
	}
	return s, true
}

package domain

import "time"

// DonationReceipt is the transient record produced by a donation, displayed
// on the follow-up page. It carries no link back to the profile.
type DonationReceipt struct {
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
}

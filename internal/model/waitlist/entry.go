package waitlist

import "time"

// Entry is one waitlist signup. ContactValue is unique; signing up twice
// returns the original entry.
type Entry struct {
	ID            string    `json:"id"`
	ContactType   string    `json:"contactType"` // "email" or "phone"
	ContactValue  string    `json:"contactValue"`
	Source        string    `json:"source"`
	ReferralCode  string    `json:"referralCode,omitempty"`
	ReferredBy    string    `json:"referredBy,omitempty"`
	ReferralCount int       `json:"referralCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

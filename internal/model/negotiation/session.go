package negotiation

import "time"

// Session tracks one buyer's haggling run over a single product. The pricing
// engine never mutates a session directly; the turn service reads state from
// it and writes the next state back through the store.
type Session struct {
	ID                 string     `json:"id"`
	SessionID          string     `json:"sessionId"`
	ProductName        string     `json:"productName"`
	StartingPrice      float64    `json:"startingPrice"`
	CurrentPrice       float64    `json:"currentPrice"`
	MinimumPrice       float64    `json:"minimumPrice"`
	FinalPrice         *float64   `json:"finalPrice,omitempty"`
	DealClosed         bool       `json:"dealClosed"`
	DiscountPercentage *float64   `json:"discountPercentage,omitempty"`
	ReferralCode       string     `json:"referralCode,omitempty"`
	ReferredBy         string     `json:"referredBy,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	EndedAt            *time.Time `json:"endedAt,omitempty"`
}

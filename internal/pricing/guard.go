package pricing

import (
	"fmt"

	"github.com/negochallenge/backend/internal/analysis/intent"
	"github.com/negochallenge/backend/internal/model/negotiation"
)

// Outcome is the guard's final word on whether a turn closes the deal.
// When acceptance was claimed below the absolute floor, CorrectiveMessage
// carries the reply that redirects the buyer and the deal stays open.
type Outcome struct {
	DealClosed         bool
	FinalPrice         float64
	DiscountPercentage float64
	CorrectiveMessage  string
}

// Close validates a resolved acceptance against the absolute floor. A deal
// closes only when a numeric offer is present, the policy resolved true
// acceptance, and the offer is at or above the floor.
func Close(it intent.Intent, d Decision, startingPrice float64) Outcome {
	if it.OfferedPrice == nil || !d.Accepted {
		return Outcome{}
	}

	offered := *it.OfferedPrice
	if offered < AbsoluteFloor {
		return Outcome{
			CorrectiveMessage: fmt.Sprintf("Wait, I think there's been a misunderstanding! I can't go below %.0f GHS for this quality product. If you can work with something around there, let me know!", AbsoluteFloor+10),
		}
	}

	final := offered
	if final < AbsoluteFloor {
		final = AbsoluteFloor
	}

	return Outcome{
		DealClosed:         true,
		FinalPrice:         final,
		DiscountPercentage: DiscountPercentage(startingPrice, final),
	}
}

// Closed reports whether a session is terminal. Callers must check this
// before running the turn pipeline at all; the guard does not enforce the
// skip itself.
func Closed(s negotiation.Session) bool {
	return s.DealClosed
}

// DiscountPercentage is the saving relative to the starting price.
func DiscountPercentage(original, final float64) float64 {
	if original <= 0 {
		return 0
	}
	return (original - final) / original * 100
}

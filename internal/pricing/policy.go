// Package pricing implements the staged concession engine behind the
// seller's counter-offers, plus the closure guard that enforces the hard
// price floor. Everything here is pure: callers pass session pricing state
// in and get a decision back, no I/O and no stored state.
package pricing

import (
	"fmt"
	"math"

	"github.com/negochallenge/backend/internal/analysis/intent"
)

const (
	// AbsoluteFloor is the one price below which a deal may never close,
	// regardless of any session's own configured minimum.
	AbsoluteFloor = 350.0

	// acceptanceTolerance is the band within which a stated price counts as
	// agreeing to the current price rather than countering it.
	acceptanceTolerance = 5.0

	notSeriousThreshold = 100.0
	qualityThreshold    = 300.0
	largeGapThreshold   = 100.0

	bulkDiscount = 0.07
)

// Input carries everything the policy needs for one turn. MessageCount is
// the number of prior buyer turns, not counting the one being processed.
type Input struct {
	Intent       intent.Intent
	Message      string
	CurrentPrice float64
	MinimumPrice float64
	MessageCount int
}

// Decision is the policy's verdict for one turn. CounterOffer is the price
// the seller should stand on next; Guidance is the instruction handed to the
// response composer, not the reply itself.
type Decision struct {
	CounterOffer  float64
	Guidance      string
	Accepted      bool
	BulkUnitPrice float64
}

// EffectiveMinimum clamps a session's configured floor so that the global
// floor always wins.
func EffectiveMinimum(minimumPrice float64) float64 {
	if minimumPrice < AbsoluteFloor {
		return AbsoluteFloor
	}
	return minimumPrice
}

// ResolveAcceptance disambiguates acceptance from counter-offers. "okay 400"
// while the seller stands at 450 is a counter-offer even though an acceptance
// word was used; the keyword scan applies only when no price was stated.
func ResolveAcceptance(it intent.Intent, message string, currentPrice float64) bool {
	if it.Accepted {
		if it.OfferedPrice == nil {
			return true
		}
		return math.Abs(*it.OfferedPrice-currentPrice) <= acceptanceTolerance
	}
	if it.OfferedPrice == nil {
		return intent.AcceptanceKeyword(message)
	}
	return false
}

// Decide evaluates one buyer turn against the staged concession schedule.
func Decide(in Input) Decision {
	minimum := EffectiveMinimum(in.MinimumPrice)
	accepted := ResolveAcceptance(in.Intent, in.Message, in.CurrentPrice)
	offered := in.Intent.OfferedPrice

	d := Decision{CounterOffer: in.CurrentPrice, Accepted: accepted}

	switch {
	case accepted && offered != nil:
		d.Guidance = fmt.Sprintf("They accepted at %.0f GHS. Get excited! Confirm the deal, ask their name, then phone number.", *offered)

	case accepted:
		// Acceptance with no figure cannot close; the guard needs a number.
		d.Guidance = fmt.Sprintf("They sound ready to close but haven't named a figure. Confirm they mean %.0f GHS and get them to say the number - no celebrating until they do.", in.CurrentPrice)

	case offered == nil && intent.AsksForOffer(in.Message):
		d.CounterOffer, d.Guidance = proactiveOffer(in.CurrentPrice, in.MessageCount)

	case offered != nil:
		d.CounterOffer, d.Guidance = evaluateOffer(*offered, in.CurrentPrice, in.MessageCount)

	case in.Intent.Quantity > 1:
		d.BulkUnitPrice = math.Max(in.CurrentPrice*(1-bulkDiscount), minimum)
		d.Guidance = fmt.Sprintf("They want %d items. Offer bulk pricing around %.0f GHS each - make it feel special.", in.Intent.Quantity, d.BulkUnitPrice)

	default:
		d.Guidance = fmt.Sprintf("Respond naturally. Current asking price: %.0f GHS. Keep the conversation flowing.", in.CurrentPrice)
	}

	// Redundant clamps so no single rule defect can leak a sub-floor counter
	// or a counter above the standing price.
	if d.CounterOffer < AbsoluteFloor {
		d.CounterOffer = AbsoluteFloor
	}
	if d.CounterOffer > in.CurrentPrice {
		d.CounterOffer = in.CurrentPrice
	}
	// Never counter below a price the buyer already put on the table.
	if offered != nil && !accepted && *offered > d.CounterOffer {
		if *offered >= AbsoluteFloor {
			d.CounterOffer = math.Min(*offered, in.CurrentPrice)
		} else {
			d.CounterOffer = in.CurrentPrice
		}
	}

	return d
}

// NextPrice applies a decision to the standing price. The price only ever
// moves down, and never below the absolute floor.
func NextPrice(d Decision, currentPrice float64) (float64, bool) {
	if d.CounterOffer < currentPrice && d.CounterOffer >= AbsoluteFloor {
		return d.CounterOffer, true
	}
	return currentPrice, false
}

// proactiveOffer prices a "give me your best offer" request from the staged
// discount schedule. Later turns drop further and keep less headroom above
// the floor.
func proactiveOffer(currentPrice float64, messageCount int) (float64, string) {
	switch {
	case messageCount == 0:
		offer := math.Max(currentPrice-20, AbsoluteFloor+30)
		return offer, fmt.Sprintf("They're asking for YOUR offer. Give them %.0f GHS. Make it sound like a special deal just for them. Add some urgency or value.", offer)
	case messageCount < 3:
		offer := math.Max(currentPrice-30, AbsoluteFloor+20)
		return offer, fmt.Sprintf("They want your best offer. Counter with %.0f GHS. Mention it's a limited-time deal or add a bonus (free delivery/warranty extension).", offer)
	case messageCount < 5:
		offer := math.Max(currentPrice-40, AbsoluteFloor+15)
		return offer, fmt.Sprintf("They're asking for your offer. Give %.0f GHS as your 'final' offer. Make it compelling - mention another buyer or time sensitivity.", offer)
	default:
		offer := AbsoluteFloor + 10
		return offer, fmt.Sprintf("Give your rock-bottom offer: %.0f GHS. This is your absolute final price. Make it clear this is the best you can do.", offer)
	}
}

// rule is one row of the ordered offer-evaluation table. Rows are checked
// strictly top to bottom; the first match wins. The order is the documented
// total order for boundary values: not-serious, quality, hard floor, large
// gap, then the concession schedule.
type rule struct {
	name  string
	match func(offered, currentPrice float64, messageCount int) bool
	apply func(offered, currentPrice float64, messageCount int) (float64, string)
}

var offerRules = []rule{
	{
		name: "not-serious",
		match: func(offered, _ float64, _ int) bool {
			return offered < notSeriousThreshold
		},
		apply: func(offered, currentPrice float64, _ int) (float64, string) {
			return currentPrice, fmt.Sprintf("They offered %.0f GHS (ridiculous!). Call them out with humor. Ask for a SERIOUS offer. KEEP your price at %.0f GHS - don't drop it!", offered, currentPrice)
		},
	},
	{
		name: "quality",
		match: func(offered, _ float64, _ int) bool {
			return offered < qualityThreshold
		},
		apply: func(offered, currentPrice float64, _ int) (float64, string) {
			return currentPrice, fmt.Sprintf("They offered %.0f GHS (below 300!). Emphasize quality. Say something like: 'This is quality - 300 is already too low for this type of watch. If you can come up a bit, I can work with you.' STAY at %.0f GHS.", offered, currentPrice)
		},
	},
	{
		name: "hard-floor",
		match: func(offered, _ float64, _ int) bool {
			return offered < AbsoluteFloor
		},
		apply: func(offered, currentPrice float64, _ int) (float64, string) {
			return currentPrice, fmt.Sprintf("They offered %.0f GHS (way too low!). This is quality merchandise. Politely but firmly say you can't work with that price. Emphasize value and suggest they need to come up SIGNIFICANTLY. STAY at %.0f GHS. DO NOT drop your price at all.", offered, currentPrice)
		},
	},
	{
		name: "large-gap",
		match: func(offered, currentPrice float64, _ int) bool {
			return currentPrice-offered > largeGapThreshold
		},
		apply: func(offered, currentPrice float64, _ int) (float64, string) {
			return currentPrice, fmt.Sprintf("They offered %.0f GHS but you're at %.0f GHS (gap too big!). STAY FIRM at %.0f GHS. Explain why it's worth it (quality, warranty, original). DON'T drop price yet!", offered, currentPrice, currentPrice)
		},
	},
	{
		name: "concession",
		match: func(_, _ float64, _ int) bool {
			return true
		},
		apply: concede,
	},
}

func evaluateOffer(offered, currentPrice float64, messageCount int) (float64, string) {
	for _, r := range offerRules {
		if r.match(offered, currentPrice, messageCount) {
			return r.apply(offered, currentPrice, messageCount)
		}
	}
	// Unreachable: the concession row always matches.
	return currentPrice, ""
}

// concede selects a counter from the turn-count buckets: 0, 1-2, 3, 4-5, 6+.
// The earliest turns concede least; from turn six the counter sits just
// above the absolute floor.
func concede(offered, currentPrice float64, messageCount int) (float64, string) {
	gap := currentPrice - offered

	switch {
	case messageCount == 0:
		switch {
		case gap > 50:
			counter := math.Max(currentPrice-20, AbsoluteFloor+30)
			return counter, fmt.Sprintf("First offer: %.0f GHS. Counter with %.0f GHS. Make them work for it!", offered, counter)
		case gap > 30:
			counter := math.Max(currentPrice-10, AbsoluteFloor+20)
			return counter, fmt.Sprintf("They offered %.0f GHS (decent). Counter %.0f GHS. Be playful but firm.", offered, counter)
		default:
			counter := math.Max(math.Min(offered+12, currentPrice), AbsoluteFloor)
			return counter, fmt.Sprintf("They offered %.0f GHS (close!). Counter %.0f GHS. 'Nice try! How about %.0f?'", offered, counter, counter)
		}

	case messageCount <= 2:
		switch {
		case offered < currentPrice-20:
			return currentPrice, fmt.Sprintf("They're at %.0f GHS, you're at %.0f GHS. STAY FIRM at %.0f GHS! Highlight value (warranty, original, accessories). Don't drop yet!", offered, currentPrice, currentPrice)
		case offered >= AbsoluteFloor+15:
			counter := math.Max(offered, AbsoluteFloor)
			return counter, fmt.Sprintf("They offered %.0f GHS (good!). Meet them there. Say 'Alright, %.0f GHS - you're my first customer!' Ask their name.", offered, offered)
		default:
			counter := math.Max(currentPrice-12, AbsoluteFloor+15)
			return counter, fmt.Sprintf("Drop slightly to %.0f GHS. Add a bonus (free delivery/screen protector).", counter)
		}

	case messageCount == 3:
		if offered < currentPrice-15 {
			return currentPrice, fmt.Sprintf("Still at %.0f GHS vs %.0f GHS. HOLD at %.0f GHS. Add urgency or value. Make them come up!", offered, currentPrice, currentPrice)
		}
		counter := math.Max(currentPrice-18, AbsoluteFloor+12)
		return counter, fmt.Sprintf("Drop to %.0f GHS. Mention bulk rate or special pricing.", counter)

	case messageCount <= 5:
		counter := math.Max(currentPrice-20, AbsoluteFloor+10)
		return counter, fmt.Sprintf("Offer %.0f GHS. Ask their budget.", counter)

	default:
		counter := AbsoluteFloor + 8
		return counter, fmt.Sprintf("Final offer: %.0f GHS. Add urgency - another buyer, last chance! This is your rock-bottom price.", counter)
	}
}

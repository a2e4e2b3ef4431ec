package pricing

import (
	"strings"
	"testing"

	"github.com/negochallenge/backend/internal/analysis/intent"
)

func price(v float64) *float64 { return &v }

func TestEffectiveMinimumClampsToFloor(t *testing.T) {
	if got := EffectiveMinimum(200); got != AbsoluteFloor {
		t.Fatalf("expected %v, got %v", AbsoluteFloor, got)
	}
	if got := EffectiveMinimum(380); got != 380 {
		t.Fatalf("expected 380, got %v", got)
	}
}

func TestResolveAcceptanceWithinTolerance(t *testing.T) {
	it := intent.Intent{OfferedPrice: price(448), Accepted: true}
	if !ResolveAcceptance(it, "okay 448", 450) {
		t.Fatal("448 against 450 is within tolerance and should accept")
	}
}

func TestResolveAcceptanceOutsideToleranceIsCounter(t *testing.T) {
	it := intent.Intent{OfferedPrice: price(400), Accepted: true}
	if ResolveAcceptance(it, "okay 400", 450) {
		t.Fatal("okay 400 against 450 is a counter-offer, not acceptance")
	}
}

func TestResolveAcceptanceBareKeyword(t *testing.T) {
	it := intent.Intent{Quantity: 1}
	if !ResolveAcceptance(it, "deal", 450) {
		t.Fatal("bare acceptance keyword should accept at the standing price")
	}
}

func TestDecideAcceptanceWithPriceConfirms(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(450), Accepted: true, Quantity: 1},
		Message:      "okay 450",
		CurrentPrice: 450,
		MinimumPrice: 380,
	})
	if !d.Accepted {
		t.Fatal("expected acceptance")
	}
	if !strings.Contains(d.Guidance, "Confirm the deal") {
		t.Fatalf("expected confirmation guidance, got %q", d.Guidance)
	}
}

func TestDecideAcceptanceWithoutPricePushesForNumber(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{Quantity: 1},
		Message:      "deal!",
		CurrentPrice: 430,
		MinimumPrice: 380,
	})
	if !d.Accepted {
		t.Fatal("expected acceptance to resolve")
	}
	// No figure means no close; the reply must ask for the number rather
	// than confirm a deal the session never records.
	if strings.Contains(d.Guidance, "Confirm the deal") {
		t.Fatalf("guidance must not confirm without a figure, got %q", d.Guidance)
	}
	if !strings.Contains(d.Guidance, "430") || !strings.Contains(d.Guidance, "say the number") {
		t.Fatalf("expected push toward an explicit 430, got %q", d.Guidance)
	}
	if d.CounterOffer != 430 {
		t.Fatalf("standing price must hold at 430, got %v", d.CounterOffer)
	}
}

func TestDecideNotSeriousHoldsPrice(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(50), Quantity: 1},
		Message:      "50 GHS",
		CurrentPrice: 450,
		MinimumPrice: 380,
	})
	if d.CounterOffer != 450 {
		t.Fatalf("expected hold at 450, got %v", d.CounterOffer)
	}
	if !strings.Contains(d.Guidance, "ridiculous") {
		t.Fatalf("expected not-serious guidance, got %q", d.Guidance)
	}
}

func TestDecideQualityHoldsPrice(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(250), Quantity: 1},
		Message:      "250 GHS",
		CurrentPrice: 450,
		MinimumPrice: 380,
	})
	if d.CounterOffer != 450 {
		t.Fatalf("expected hold at 450, got %v", d.CounterOffer)
	}
	if !strings.Contains(d.Guidance, "below 300") {
		t.Fatalf("expected quality guidance, got %q", d.Guidance)
	}
}

func TestDecideBelowFloorHoldsPrice(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(340), Quantity: 1},
		Message:      "340 GHS",
		CurrentPrice: 450,
		MinimumPrice: 380,
	})
	if d.CounterOffer != 450 {
		t.Fatalf("expected hold at 450, got %v", d.CounterOffer)
	}
	if !strings.Contains(d.Guidance, "way too low") {
		t.Fatalf("expected hard-floor guidance, got %q", d.Guidance)
	}
}

func TestDecideLargeGapHoldsPrice(t *testing.T) {
	// 350 clears every low-offer rule but leaves a 105 gap.
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(350), Quantity: 1},
		Message:      "350 GHS",
		CurrentPrice: 455,
		MinimumPrice: 380,
	})
	if d.CounterOffer != 455 {
		t.Fatalf("expected hold at 455, got %v", d.CounterOffer)
	}
	if !strings.Contains(d.Guidance, "gap too big") {
		t.Fatalf("expected large-gap guidance, got %q", d.Guidance)
	}
}

func TestDecideFirstTurnConcession(t *testing.T) {
	// Gap of 70: first-turn schedule counters 20 below the standing price.
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(380), Quantity: 1},
		Message:      "380 GHS",
		CurrentPrice: 450,
		MinimumPrice: 380,
		MessageCount: 0,
	})
	if d.CounterOffer != 430 {
		t.Fatalf("expected counter 430, got %v", d.CounterOffer)
	}
}

func TestDecideEarlyTurnsHoldAgainstLowball(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(420), Quantity: 1},
		Message:      "420",
		CurrentPrice: 450,
		MinimumPrice: 380,
		MessageCount: 2,
	})
	if d.CounterOffer != 450 {
		t.Fatalf("expected hold at 450, got %v", d.CounterOffer)
	}
}

func TestDecideLateTurnsSitNearFloor(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(355), Quantity: 1},
		Message:      "355",
		CurrentPrice: 380,
		MinimumPrice: 380,
		MessageCount: 7,
	})
	if d.CounterOffer != AbsoluteFloor+8 {
		t.Fatalf("expected %v, got %v", AbsoluteFloor+8, d.CounterOffer)
	}
}

func TestDecideNeverCountersBelowBuyerOffer(t *testing.T) {
	// The turn-5 schedule would counter at 430, below the buyer's 440.
	d := Decide(Input{
		Intent:       intent.Intent{OfferedPrice: price(440), Quantity: 1},
		Message:      "440",
		CurrentPrice: 450,
		MinimumPrice: 380,
		MessageCount: 5,
	})
	if d.CounterOffer != 440 {
		t.Fatalf("expected counter pinned to 440, got %v", d.CounterOffer)
	}
}

func TestDecideNeverGoesBelowFloor(t *testing.T) {
	for mc := 0; mc <= 10; mc++ {
		d := Decide(Input{
			Intent:       intent.Intent{OfferedPrice: price(351), Quantity: 1},
			Message:      "351",
			CurrentPrice: 352,
			MinimumPrice: 350,
			MessageCount: mc,
		})
		if d.CounterOffer < AbsoluteFloor {
			t.Fatalf("turn %d countered below floor: %v", mc, d.CounterOffer)
		}
		if d.CounterOffer > 352 {
			t.Fatalf("turn %d countered above standing price: %v", mc, d.CounterOffer)
		}
	}
}

func TestDecideProactiveOffer(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{Quantity: 1},
		Message:      "what's your best price?",
		CurrentPrice: 450,
		MinimumPrice: 380,
		MessageCount: 0,
	})
	if d.CounterOffer != 430 {
		t.Fatalf("expected proactive offer 430, got %v", d.CounterOffer)
	}
}

func TestDecideBulkPricing(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{Quantity: 3},
		Message:      "I want 3 pieces",
		CurrentPrice: 450,
		MinimumPrice: 380,
	})
	if d.BulkUnitPrice != 418.5 {
		t.Fatalf("expected bulk unit price 418.5, got %v", d.BulkUnitPrice)
	}
	// The standing price itself does not move for a bulk inquiry.
	if d.CounterOffer != 450 {
		t.Fatalf("expected standing price 450, got %v", d.CounterOffer)
	}
}

func TestDecideBulkClampedToMinimum(t *testing.T) {
	d := Decide(Input{
		Intent:       intent.Intent{Quantity: 5},
		Message:      "I want 5 pieces",
		CurrentPrice: 380,
		MinimumPrice: 378,
	})
	// 380*0.93 = 353.4, below the session minimum of 378.
	if d.BulkUnitPrice != 378 {
		t.Fatalf("expected bulk unit price clamped to 378, got %v", d.BulkUnitPrice)
	}
}

func TestNextPriceMovesDownOnly(t *testing.T) {
	if next, changed := NextPrice(Decision{CounterOffer: 430}, 450); !changed || next != 430 {
		t.Fatalf("expected move to 430, got %v changed=%v", next, changed)
	}
	if _, changed := NextPrice(Decision{CounterOffer: 450}, 450); changed {
		t.Fatal("standing price should not count as a change")
	}
	if _, changed := NextPrice(Decision{CounterOffer: 300}, 450); changed {
		t.Fatal("sub-floor counters must never move the price")
	}
}

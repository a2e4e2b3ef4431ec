package pricing

import (
	"math"
	"strings"
	"testing"

	"github.com/negochallenge/backend/internal/analysis/intent"
	"github.com/negochallenge/backend/internal/model/negotiation"
)

func TestCloseAtValidPrice(t *testing.T) {
	it := intent.Intent{OfferedPrice: price(400), Accepted: true, Quantity: 1}
	out := Close(it, Decision{Accepted: true}, 450)

	if !out.DealClosed {
		t.Fatal("expected deal to close")
	}
	if out.FinalPrice != 400 {
		t.Fatalf("expected final price 400, got %v", out.FinalPrice)
	}
	want := (450.0 - 400.0) / 450.0 * 100
	if math.Abs(out.DiscountPercentage-want) > 0.001 {
		t.Fatalf("expected discount %.3f, got %.3f", want, out.DiscountPercentage)
	}
}

func TestCloseExactlyAtFloor(t *testing.T) {
	it := intent.Intent{OfferedPrice: price(AbsoluteFloor), Accepted: true, Quantity: 1}
	out := Close(it, Decision{Accepted: true}, 450)

	if !out.DealClosed || out.FinalPrice != AbsoluteFloor {
		t.Fatalf("expected close at %v, got closed=%v final=%v", AbsoluteFloor, out.DealClosed, out.FinalPrice)
	}
}

func TestCloseBelowFloorCorrects(t *testing.T) {
	it := intent.Intent{OfferedPrice: price(340), Accepted: true, Quantity: 1}
	out := Close(it, Decision{Accepted: true}, 450)

	if out.DealClosed {
		t.Fatal("deal must never close below the floor")
	}
	if out.CorrectiveMessage == "" {
		t.Fatal("expected a corrective message")
	}
	if !strings.Contains(out.CorrectiveMessage, "360") {
		t.Fatalf("corrective message should redirect above the floor, got %q", out.CorrectiveMessage)
	}
}

func TestCloseRequiresNumericOffer(t *testing.T) {
	it := intent.Intent{Accepted: true, Quantity: 1}
	out := Close(it, Decision{Accepted: true}, 450)

	if out.DealClosed || out.CorrectiveMessage != "" {
		t.Fatalf("acceptance without a price must not close or correct, got %+v", out)
	}
}

func TestCloseRequiresAcceptance(t *testing.T) {
	it := intent.Intent{OfferedPrice: price(400), Quantity: 1}
	out := Close(it, Decision{Accepted: false}, 450)

	if out.DealClosed {
		t.Fatal("a plain offer must not close the deal")
	}
}

func TestClosed(t *testing.T) {
	if Closed(negotiation.Session{}) {
		t.Fatal("fresh session is not terminal")
	}
	if !Closed(negotiation.Session{DealClosed: true}) {
		t.Fatal("closed session is terminal")
	}
}

func TestDiscountPercentageZeroOriginal(t *testing.T) {
	if got := DiscountPercentage(0, 100); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

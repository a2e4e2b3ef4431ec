package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/negochallenge/backend/internal/llm"
)

type fakeClient struct {
	content string
	err     error
	called  bool
}

func (f *fakeClient) Generate(_ context.Context, _ []llm.Message) (llm.Response, error) {
	f.called = true
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Content: f.content}, nil
}

func TestExtractClassifierSuccess(t *testing.T) {
	client := &fakeClient{content: `{"offered_price": 395, "accepted_deal": true, "quantity": 1}`}
	svc := NewService(client, time.Second)

	it := svc.Extract(context.Background(), "395 is okay for me")

	if !client.called {
		t.Fatal("expected classifier to be invoked")
	}
	if it.OfferedPrice == nil || *it.OfferedPrice != 395 {
		t.Fatalf("expected price 395, got %v", it.OfferedPrice)
	}
	if !it.Accepted {
		t.Fatal("expected acceptance")
	}
	if it.Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", it.Quantity)
	}
}

func TestExtractClassifierWithSurroundingProse(t *testing.T) {
	client := &fakeClient{content: "Here you go:\n{\"offered_price\": 320, \"accepted_deal\": false, \"quantity\": 2}\nDone."}
	svc := NewService(client, time.Second)

	it := svc.Extract(context.Background(), "can you do 320 for 2 pieces")

	if it.OfferedPrice == nil || *it.OfferedPrice != 320 {
		t.Fatalf("expected price 320, got %v", it.OfferedPrice)
	}
	if it.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", it.Quantity)
	}
}

func TestExtractFallbackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	svc := NewService(client, time.Second)

	it := svc.Extract(context.Background(), "I can do 300 GHS")

	if it.OfferedPrice == nil || *it.OfferedPrice != 300 {
		t.Fatalf("expected fallback price 300, got %v", it.OfferedPrice)
	}
	if it.Accepted {
		t.Fatal("fallback never accepts")
	}
}

func TestExtractFallbackOnGarbage(t *testing.T) {
	client := &fakeClient{content: "sure, they seem interested!"}
	svc := NewService(client, time.Second)

	it := svc.Extract(context.Background(), "deal at 380 cedis")

	if it.OfferedPrice == nil || *it.OfferedPrice != 380 {
		t.Fatalf("expected fallback price 380, got %v", it.OfferedPrice)
	}
}

func TestExtractBackfillsMissingPrice(t *testing.T) {
	client := &fakeClient{content: `{"offered_price": null, "accepted_deal": true, "quantity": 0}`}
	svc := NewService(client, time.Second)

	it := svc.Extract(context.Background(), "okay, 400 GHS works")

	if it.OfferedPrice == nil || *it.OfferedPrice != 400 {
		t.Fatalf("expected backfilled price 400, got %v", it.OfferedPrice)
	}
	if it.Quantity != 1 {
		t.Fatalf("expected backfilled quantity 1, got %d", it.Quantity)
	}
}

func TestExtractNilClientUsesFallback(t *testing.T) {
	svc := NewService(nil, time.Second)

	if svc.Enabled() {
		t.Fatal("nil client must disable the classifier")
	}

	it := svc.Extract(context.Background(), "what about 350")
	if it.OfferedPrice == nil || *it.OfferedPrice != 350 {
		t.Fatalf("expected 350 from fallback, got %v", it.OfferedPrice)
	}
}

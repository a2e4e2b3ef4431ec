package waitlist

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	waitlistservice "github.com/negochallenge/backend/internal/service/waitlist"
	"github.com/negochallenge/backend/internal/store"
)

func setupRouter() *chi.Mux {
	svc := waitlistservice.NewService(store.NewMemory())
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func signup(t *testing.T, r *chi.Mux, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/waitlist", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSignupNewContact(t *testing.T) {
	r := setupRouter()

	resp := signup(t, r, map[string]string{"contactType": "email", "contactValue": "a@b.com"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var body struct {
		ReferralCode  string `json:"referralCode"`
		AlreadyJoined bool   `json:"alreadyJoined"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.ReferralCode) != 8 {
		t.Fatalf("expected 8-char referral code, got %q", body.ReferralCode)
	}
	if body.AlreadyJoined {
		t.Fatal("fresh signup should not be marked as duplicate")
	}
}

func TestSignupDuplicateReturnsExistingCode(t *testing.T) {
	r := setupRouter()

	first := signup(t, r, map[string]string{"contactType": "email", "contactValue": "a@b.com"})
	second := signup(t, r, map[string]string{"contactType": "email", "contactValue": "a@b.com"})

	if second.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", second.Code)
	}

	var b1, b2 struct {
		ReferralCode  string `json:"referralCode"`
		AlreadyJoined bool   `json:"alreadyJoined"`
	}
	json.Unmarshal(first.Body.Bytes(), &b1)
	json.Unmarshal(second.Body.Bytes(), &b2)

	if !b2.AlreadyJoined {
		t.Fatal("expected duplicate flag")
	}
	if b1.ReferralCode != b2.ReferralCode {
		t.Fatalf("duplicate signup must keep its code: %q vs %q", b1.ReferralCode, b2.ReferralCode)
	}
}

func TestSignupInvalidContactType(t *testing.T) {
	r := setupRouter()

	resp := signup(t, r, map[string]string{"contactType": "carrier-pigeon", "contactValue": "x"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSignupCreditsReferrer(t *testing.T) {
	r := setupRouter()

	first := signup(t, r, map[string]string{"contactType": "email", "contactValue": "a@b.com"})
	var b1 struct {
		ReferralCode string `json:"referralCode"`
	}
	json.Unmarshal(first.Body.Bytes(), &b1)

	signup(t, r, map[string]string{
		"contactType":  "phone",
		"contactValue": "+233201234567",
		"referredBy":   b1.ReferralCode,
	})

	req := httptest.NewRequest(http.MethodGet, "/waitlist/all", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var listing struct {
		Entries []struct {
			ContactValue  string `json:"contactValue"`
			ReferralCount int    `json:"referralCount"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &listing); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	for _, e := range listing.Entries {
		if e.ContactValue == "a@b.com" && e.ReferralCount == 1 {
			return
		}
	}
	t.Fatalf("referrer was not credited: %+v", listing.Entries)
}

func TestWaitlistCount(t *testing.T) {
	r := setupRouter()

	signup(t, r, map[string]string{"contactType": "email", "contactValue": "a@b.com"})

	req := httptest.NewRequest(http.MethodGet, "/waitlist/count", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Count != 1 {
		t.Fatalf("expected count 1, got %d", body.Count)
	}
}

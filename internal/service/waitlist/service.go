// Package waitlist handles signups and the referral counters behind them.
package waitlist

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/negochallenge/backend/internal/model/waitlist"
	"github.com/negochallenge/backend/internal/store"
)

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SignupResult reports whether the contact was new and carries the entry.
type SignupResult struct {
	Entry         waitlist.Entry
	AlreadyJoined bool
}

// Service owns waitlist signups.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Signup registers a contact. Re-submitting a known contact returns the
// existing entry instead of failing, so the frontend can show the same
// referral code again.
func (s *Service) Signup(ctx context.Context, contactType, contactValue, source, referredBy string) (SignupResult, error) {
	contactType = strings.ToLower(strings.TrimSpace(contactType))
	contactValue = strings.TrimSpace(contactValue)
	if contactValue == "" {
		return SignupResult{}, fmt.Errorf("contact value is required")
	}
	if contactType != "email" && contactType != "phone" {
		return SignupResult{}, fmt.Errorf("contact type must be email or phone, got %q", contactType)
	}
	if source == "" {
		source = "website"
	}

	existing, err := s.store.WaitlistEntryByContact(ctx, contactValue)
	if err == nil {
		return SignupResult{Entry: existing, AlreadyJoined: true}, nil
	}
	if err != store.ErrEntryNotFound {
		return SignupResult{}, err
	}

	entry := waitlist.Entry{
		ID:           uuid.NewString(),
		ContactType:  contactType,
		ContactValue: contactValue,
		Source:       source,
		ReferralCode: randomReferralCode(8),
		ReferredBy:   strings.TrimSpace(referredBy),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateWaitlistEntry(ctx, entry); err != nil {
		return SignupResult{}, err
	}

	if entry.ReferredBy != "" {
		if err := s.store.IncrementReferralCount(ctx, entry.ReferredBy); err != nil {
			// An unknown or stale code is not the new signup's problem.
			log.Printf("[waitlist] credit referral %s failed: %v", entry.ReferredBy, err)
		}
	}

	return SignupResult{Entry: entry}, nil
}

// Count returns the number of signups.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.WaitlistCount(ctx)
}

// List returns all entries, newest first.
func (s *Service) List(ctx context.Context) ([]waitlist.Entry, error) {
	return s.store.ListWaitlist(ctx)
}

func randomReferralCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = referralAlphabet[rand.Intn(len(referralAlphabet))]
	}
	return string(b)
}

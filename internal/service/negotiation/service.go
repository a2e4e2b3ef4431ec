// Package negotiation drives the per-turn pipeline: intent extraction, the
// pricing decision, the closure guard, and reply composition, in that order.
package negotiation

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	model "github.com/negochallenge/backend/internal/model/negotiation"
	"github.com/negochallenge/backend/internal/model/product"
	"github.com/negochallenge/backend/internal/pricing"
	aiservice "github.com/negochallenge/backend/internal/service/ai"
	intentservice "github.com/negochallenge/backend/internal/service/intent"
	"github.com/negochallenge/backend/internal/store"
)

// InitGreeting is the sentinel first message the frontend sends to fetch an
// opening line without recording a turn.
const InitGreeting = "INIT_GREETING"

// ClosedSessionReply answers every turn on a session that already closed.
const ClosedSessionReply = "We already made a deal! Are you trying to renegotiate? 😄"

const shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TurnResult is what one buyer turn produces.
type TurnResult struct {
	Reply              string   `json:"aiMessage"`
	DealClosed         bool     `json:"dealClosed"`
	FinalPrice         *float64 `json:"finalPrice,omitempty"`
	DiscountPercentage *float64 `json:"discountPercentage,omitempty"`
	IsFirstMessage     bool     `json:"isFirstMessage,omitempty"`
	ShareCode          string   `json:"shareCode,omitempty"`
	UpdatedPrice       *float64 `json:"updatedCurrentPrice,omitempty"`
}

// Service owns session lifecycle and turn processing. Turns for different
// sessions run concurrently; turns for the same session are serialized by a
// per-session lock, since the pipeline reads and then writes the standing
// price.
type Service struct {
	store    store.Store
	intents  *intentservice.Service
	composer *aiservice.Composer
	product  product.Product

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService wires the turn pipeline.
func NewService(st store.Store, intents *intentservice.Service, composer *aiservice.Composer, prod product.Product) *Service {
	return &Service{
		store:    st,
		intents:  intents,
		composer: composer,
		product:  prod,
		locks:    make(map[string]*sync.Mutex),
	}
}

// ProcessTurn handles one buyer message end to end. External-service trouble
// never surfaces as an error; only store failures do.
func (s *Service) ProcessTurn(ctx context.Context, sessionID, userMessage, referredBy string) (TurnResult, error) {
	if sessionID == "" {
		return TurnResult{}, fmt.Errorf("session id is required")
	}

	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.ensureSession(ctx, sessionID, referredBy)
	if err != nil {
		return TurnResult{}, err
	}

	if userMessage == InitGreeting {
		return TurnResult{
			Reply:          s.product.OpeningLine(),
			IsFirstMessage: true,
			ShareCode:      session.ReferralCode,
		}, nil
	}

	// Terminal sessions short-circuit: same final price, fixed reply, no
	// extractor or policy involved.
	if pricing.Closed(session) {
		return TurnResult{
			Reply:              ClosedSessionReply,
			DealClosed:         true,
			FinalPrice:         session.FinalPrice,
			DiscountPercentage: session.DiscountPercentage,
			ShareCode:          session.ReferralCode,
		}, nil
	}

	transcript, err := s.store.Transcript(ctx, sessionID)
	if err != nil {
		return TurnResult{}, err
	}
	messageCount := countBuyerTurns(transcript)

	it := s.intents.Extract(ctx, userMessage)

	decision := pricing.Decide(pricing.Input{
		Intent:       it,
		Message:      userMessage,
		CurrentPrice: session.CurrentPrice,
		MinimumPrice: session.MinimumPrice,
		MessageCount: messageCount,
	})

	outcome := pricing.Close(it, decision, session.StartingPrice)

	var reply string
	if outcome.CorrectiveMessage != "" {
		reply = outcome.CorrectiveMessage
	} else {
		reply = s.composer.Compose(ctx, session.CurrentPrice, messageCount, transcript, userMessage, decision)
	}

	result := TurnResult{ShareCode: session.ReferralCode}

	if outcome.DealClosed {
		reply = withClosingLine(reply, outcome.FinalPrice)
		now := time.Now().UTC()
		final := outcome.FinalPrice
		discount := outcome.DiscountPercentage
		session.DealClosed = true
		session.FinalPrice = &final
		session.DiscountPercentage = &discount
		session.EndedAt = &now

		result.DealClosed = true
		result.FinalPrice = &final
		result.DiscountPercentage = &discount
	} else if next, changed := pricing.NextPrice(decision, session.CurrentPrice); changed {
		session.CurrentPrice = next
		result.UpdatedPrice = &next
	}

	if err := s.persistTurn(ctx, session, userMessage, reply); err != nil {
		return TurnResult{}, err
	}

	result.Reply = reply
	return result, nil
}

// ensureSession fetches the session or provisions a fresh one with a
// randomized floor and a share code.
func (s *Service) ensureSession(ctx context.Context, sessionID, referredBy string) (model.Session, error) {
	session, err := s.store.SessionByID(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if err != store.ErrSessionNotFound {
		return model.Session{}, err
	}

	// The session minimum is always at or above the global floor; the
	// pipeline clamps again on every turn regardless.
	minimum := pricing.EffectiveMinimum(s.product.RandomMinimum())

	session = model.Session{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		ProductName:   s.product.Name,
		StartingPrice: s.product.StartingPrice,
		CurrentPrice:  s.product.StartingPrice,
		MinimumPrice:  minimum,
		ReferralCode:  "NEGO" + randomCode(6),
		ReferredBy:    referredBy,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

func (s *Service) persistTurn(ctx context.Context, session model.Session, userMessage, reply string) error {
	now := time.Now().UTC()
	userMsg := model.Message{
		ID:        uuid.NewString(),
		SessionID: session.SessionID,
		Role:      model.RoleUser,
		Content:   userMessage,
		CreatedAt: now,
	}
	if err := s.store.AppendMessage(ctx, userMsg); err != nil {
		return err
	}

	assistantMsg := model.Message{
		ID:        uuid.NewString(),
		SessionID: session.SessionID,
		Role:      model.RoleAssistant,
		Content:   reply,
		CreatedAt: now,
	}
	if err := s.store.AppendMessage(ctx, assistantMsg); err != nil {
		return err
	}

	return s.store.UpdateSession(ctx, session)
}

// sessionLock returns the mutex serializing turns for one session. Entries
// are kept for the process lifetime: eviction on deal close would let a
// late concurrent turn mint a second mutex for the same session, and the
// map is bounded by the session count anyway.
func (s *Service) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

func countBuyerTurns(transcript []model.Message) int {
	count := 0
	for _, m := range transcript {
		if m.Role == model.RoleUser {
			count++
		}
	}
	return count
}

// withClosingLine appends the deal confirmation when the generated reply
// lacks a closing cue.
func withClosingLine(reply string, finalPrice float64) string {
	lower := strings.ToLower(reply)
	if strings.Contains(lower, "deal") || strings.Contains(lower, "name") {
		return reply
	}
	return reply + fmt.Sprintf("\n\nGreat! %.0f GHS it is. What's your name?", finalPrice)
}

func randomCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = shareCodeAlphabet[rand.Intn(len(shareCodeAlphabet))]
	}
	return string(b)
}

package negotiation

import (
	"context"
	"fmt"
	"sort"
	"time"

	model "github.com/negochallenge/backend/internal/model/negotiation"
)

// Stats aggregates session outcomes for the admin dashboard.
type Stats struct {
	TotalSessions     int     `json:"total_sessions"`
	ClosedDeals       int     `json:"closed_deals"`
	ConversionRate    string  `json:"conversion_rate"`
	AverageFinalPrice float64 `json:"average_final_price"`
}

// SessionSummary is one row of the admin listing.
type SessionSummary struct {
	SessionID     string     `json:"session_id"`
	ProductName   string     `json:"product_name"`
	StartingPrice float64    `json:"starting_price"`
	MinimumPrice  float64    `json:"minimum_price"`
	CurrentPrice  float64    `json:"current_price"`
	FinalPrice    *float64   `json:"final_price"`
	DealClosed    bool       `json:"deal_closed"`
	CreatedAt     time.Time  `json:"created_at"`
	EndedAt       *time.Time `json:"ended_at"`
	MessageCount  int        `json:"message_count"`
}

// TranscriptTurn is one replayed message in a session detail view.
type TranscriptTurn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionDetail is the full conversation history for one session.
type SessionDetail struct {
	SessionID  string           `json:"session_id"`
	Messages   []TranscriptTurn `json:"messages"`
	CreatedAt  time.Time        `json:"created_at"`
	DealClosed bool             `json:"deal_closed"`
	FinalPrice *float64         `json:"final_price"`
}

// NegotiatorRank is a leaderboard row for closed deals.
type NegotiatorRank struct {
	SessionID          string    `json:"session_id"`
	FinalPrice         float64   `json:"final_price"`
	DiscountPercentage float64   `json:"discount_percentage"`
	ShareCode          string    `json:"share_code"`
	CreatedAt          time.Time `json:"created_at"`
}

// ReferrerRank is a leaderboard row for share-code referrals.
type ReferrerRank struct {
	ShareCode     string `json:"share_code"`
	ReferralCount int    `json:"referral_count"`
	SessionID     string `json:"session_id"`
}

// Leaderboard bundles both rankings.
type Leaderboard struct {
	TopNegotiators []NegotiatorRank `json:"top_negotiators"`
	TopReferrers   []ReferrerRank   `json:"top_referrers"`
}

// Stats computes dashboard aggregates over all sessions.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{TotalSessions: len(sessions), ConversionRate: "0%"}
	var sum float64
	var priced int
	for _, sess := range sessions {
		if sess.DealClosed {
			stats.ClosedDeals++
		}
		if sess.FinalPrice != nil {
			sum += *sess.FinalPrice
			priced++
		}
	}
	if stats.TotalSessions > 0 {
		stats.ConversionRate = fmt.Sprintf("%.1f%%", float64(stats.ClosedDeals)/float64(stats.TotalSessions)*100)
	}
	if priced > 0 {
		stats.AverageFinalPrice = round2(sum / float64(priced))
	}
	return stats, nil
}

// Sessions returns the admin listing, newest first, with message counts.
func (s *Service) Sessions(ctx context.Context) ([]SessionSummary, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SessionSummary, 0, len(sessions))
	for _, sess := range sessions {
		count, err := s.store.MessageCount(ctx, sess.SessionID)
		if err != nil {
			count = 0
		}
		out = append(out, SessionSummary{
			SessionID:     sess.SessionID,
			ProductName:   sess.ProductName,
			StartingPrice: sess.StartingPrice,
			MinimumPrice:  sess.MinimumPrice,
			CurrentPrice:  sess.CurrentPrice,
			FinalPrice:    sess.FinalPrice,
			DealClosed:    sess.DealClosed,
			CreatedAt:     sess.CreatedAt,
			EndedAt:       sess.EndedAt,
			MessageCount:  count,
		})
	}
	return out, nil
}

// SessionDetail returns one session's transcript and deal state.
func (s *Service) SessionDetail(ctx context.Context, sessionID string) (SessionDetail, error) {
	session, err := s.store.SessionByID(ctx, sessionID)
	if err != nil {
		return SessionDetail{}, err
	}
	transcript, err := s.store.Transcript(ctx, sessionID)
	if err != nil {
		return SessionDetail{}, err
	}

	turns := make([]TranscriptTurn, 0, len(transcript))
	for _, m := range transcript {
		turns = append(turns, TranscriptTurn{Role: m.Role, Content: m.Content, Timestamp: m.CreatedAt})
	}

	return SessionDetail{
		SessionID:  session.SessionID,
		Messages:   turns,
		CreatedAt:  session.CreatedAt,
		DealClosed: session.DealClosed,
		FinalPrice: session.FinalPrice,
	}, nil
}

// Leaderboard ranks the best discounts and the most-used share codes.
func (s *Service) Leaderboard(ctx context.Context) (Leaderboard, error) {
	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		return Leaderboard{}, err
	}

	var negotiators []NegotiatorRank
	referredCounts := make(map[string]int)
	codeOwners := make(map[string]model.Session)

	for _, sess := range sessions {
		if sess.DealClosed && sess.DiscountPercentage != nil && sess.FinalPrice != nil {
			negotiators = append(negotiators, NegotiatorRank{
				SessionID:          shortID(sess.SessionID),
				FinalPrice:         *sess.FinalPrice,
				DiscountPercentage: round2(*sess.DiscountPercentage),
				ShareCode:          sess.ReferralCode,
				CreatedAt:          sess.CreatedAt,
			})
		}
		if sess.ReferralCode != "" {
			codeOwners[sess.ReferralCode] = sess
		}
		if sess.ReferredBy != "" {
			referredCounts[sess.ReferredBy]++
		}
	}

	sort.Slice(negotiators, func(i, j int) bool {
		return negotiators[i].DiscountPercentage > negotiators[j].DiscountPercentage
	})
	if len(negotiators) > 10 {
		negotiators = negotiators[:10]
	}

	var referrers []ReferrerRank
	for code, count := range referredCounts {
		owner, ok := codeOwners[code]
		if !ok {
			continue
		}
		referrers = append(referrers, ReferrerRank{
			ShareCode:     code,
			ReferralCount: count,
			SessionID:     shortID(owner.SessionID),
		})
	}
	sort.Slice(referrers, func(i, j int) bool {
		return referrers[i].ReferralCount > referrers[j].ReferralCount
	})
	if len(referrers) > 10 {
		referrers = referrers[:10]
	}

	return Leaderboard{TopNegotiators: negotiators, TopReferrers: referrers}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

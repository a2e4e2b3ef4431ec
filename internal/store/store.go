// Package store persists sessions, transcripts, and waitlist entries. The
// negotiation core never touches it; handlers and services do.
package store

import (
	"context"
	"errors"

	"github.com/negochallenge/backend/internal/model/negotiation"
	"github.com/negochallenge/backend/internal/model/waitlist"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEntryNotFound   = errors.New("waitlist entry not found")
)

// Store is implemented by the in-memory store and the MySQL store.
type Store interface {
	CreateSession(ctx context.Context, s negotiation.Session) error
	SessionByID(ctx context.Context, sessionID string) (negotiation.Session, error)
	UpdateSession(ctx context.Context, s negotiation.Session) error
	ListSessions(ctx context.Context) ([]negotiation.Session, error)

	AppendMessage(ctx context.Context, m negotiation.Message) error
	Transcript(ctx context.Context, sessionID string) ([]negotiation.Message, error)
	MessageCount(ctx context.Context, sessionID string) (int, error)

	CreateWaitlistEntry(ctx context.Context, e waitlist.Entry) error
	WaitlistEntryByContact(ctx context.Context, contactValue string) (waitlist.Entry, error)
	WaitlistEntryByCode(ctx context.Context, code string) (waitlist.Entry, error)
	IncrementReferralCount(ctx context.Context, code string) error
	ListWaitlist(ctx context.Context) ([]waitlist.Entry, error)
	WaitlistCount(ctx context.Context) (int, error)
}

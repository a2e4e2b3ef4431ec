package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/negochallenge/backend/internal/model/negotiation"
	"github.com/negochallenge/backend/internal/model/waitlist"
)

// MySQL persists everything through database/sql. Row IDs are ULIDs so they
// sort by creation time.
type MySQL struct {
	db *sql.DB
}

// NewMySQL wraps an open connection pool.
func NewMySQL(db *sql.DB) *MySQL {
	return &MySQL{db: db}
}

// EnsureSchema creates the tables when they do not exist yet.
func (s *MySQL) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id CHAR(36) PRIMARY KEY,
			session_id VARCHAR(191) NOT NULL UNIQUE,
			product_name VARCHAR(255) NOT NULL,
			starting_price DOUBLE NOT NULL,
			current_price DOUBLE NOT NULL,
			minimum_price DOUBLE NOT NULL,
			final_price DOUBLE NULL,
			deal_closed BOOLEAN NOT NULL DEFAULT FALSE,
			discount_percentage DOUBLE NULL,
			referral_code VARCHAR(32) NULL,
			referred_by VARCHAR(32) NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at TIMESTAMP NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id CHAR(26) PRIMARY KEY COMMENT 'ULID',
			session_id VARCHAR(191) NOT NULL,
			role VARCHAR(16) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_messages_session (session_id)
		)`,
		`CREATE TABLE IF NOT EXISTS waitlist (
			id CHAR(36) PRIMARY KEY,
			contact_type VARCHAR(16) NOT NULL,
			contact_value VARCHAR(191) NOT NULL UNIQUE,
			source VARCHAR(64) NOT NULL DEFAULT 'website',
			referral_code VARCHAR(32) NULL UNIQUE,
			referred_by VARCHAR(32) NULL,
			referral_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *MySQL) CreateSession(ctx context.Context, sess negotiation.Session) error {
	query := `INSERT INTO sessions (id, session_id, product_name, starting_price, current_price, minimum_price, final_price, deal_closed, discount_percentage, referral_code, referred_by, created_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.SessionID, sess.ProductName, sess.StartingPrice, sess.CurrentPrice, sess.MinimumPrice,
		sess.FinalPrice, sess.DealClosed, sess.DiscountPercentage, nullable(sess.ReferralCode), nullable(sess.ReferredBy),
		sess.CreatedAt, sess.EndedAt)
	return err
}

func (s *MySQL) SessionByID(ctx context.Context, sessionID string) (negotiation.Session, error) {
	query := `SELECT id, session_id, product_name, starting_price, current_price, minimum_price, final_price, deal_closed, discount_percentage, referral_code, referred_by, created_at, ended_at
		FROM sessions WHERE session_id = ?`
	return s.scanSession(s.db.QueryRowContext(ctx, query, sessionID))
}

func (s *MySQL) UpdateSession(ctx context.Context, sess negotiation.Session) error {
	query := `UPDATE sessions SET current_price = ?, final_price = ?, deal_closed = ?, discount_percentage = ?, ended_at = ? WHERE session_id = ?`
	res, err := s.db.ExecContext(ctx, query,
		sess.CurrentPrice, sess.FinalPrice, sess.DealClosed, sess.DiscountPercentage, sess.EndedAt, sess.SessionID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := s.SessionByID(ctx, sess.SessionID); err != nil {
			return ErrSessionNotFound
		}
	}
	return nil
}

func (s *MySQL) ListSessions(ctx context.Context) ([]negotiation.Session, error) {
	query := `SELECT id, session_id, product_name, starting_price, current_price, minimum_price, final_price, deal_closed, discount_percentage, referral_code, referred_by, created_at, ended_at
		FROM sessions ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []negotiation.Session
	for rows.Next() {
		sess, err := s.scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *MySQL) AppendMessage(ctx context.Context, m negotiation.Message) error {
	if m.ID == "" {
		m.ID = ulid.Make().String()
	}
	query := `INSERT INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, m.ID, m.SessionID, m.Role, m.Content, m.CreatedAt)
	return err
}

func (s *MySQL) Transcript(ctx context.Context, sessionID string) ([]negotiation.Message, error) {
	query := `SELECT id, session_id, role, content, created_at FROM messages WHERE session_id = ? ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []negotiation.Message
	for rows.Next() {
		var m negotiation.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *MySQL) MessageCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&count)
	return count, err
}

func (s *MySQL) CreateWaitlistEntry(ctx context.Context, e waitlist.Entry) error {
	query := `INSERT INTO waitlist (id, contact_type, contact_value, source, referral_code, referred_by, referral_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.ContactType, e.ContactValue, e.Source, nullable(e.ReferralCode), nullable(e.ReferredBy), e.ReferralCount, e.CreatedAt)
	return err
}

func (s *MySQL) WaitlistEntryByContact(ctx context.Context, contactValue string) (waitlist.Entry, error) {
	query := `SELECT id, contact_type, contact_value, source, referral_code, referred_by, referral_count, created_at FROM waitlist WHERE contact_value = ?`
	return s.scanEntry(s.db.QueryRowContext(ctx, query, contactValue))
}

func (s *MySQL) WaitlistEntryByCode(ctx context.Context, code string) (waitlist.Entry, error) {
	query := `SELECT id, contact_type, contact_value, source, referral_code, referred_by, referral_count, created_at FROM waitlist WHERE referral_code = ?`
	return s.scanEntry(s.db.QueryRowContext(ctx, query, code))
}

func (s *MySQL) IncrementReferralCount(ctx context.Context, code string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE waitlist SET referral_count = referral_count + 1 WHERE referral_code = ?`, code)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *MySQL) ListWaitlist(ctx context.Context) ([]waitlist.Entry, error) {
	query := `SELECT id, contact_type, contact_value, source, referral_code, referred_by, referral_count, created_at FROM waitlist ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []waitlist.Entry
	for rows.Next() {
		e, err := s.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *MySQL) WaitlistCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waitlist`).Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *MySQL) scanSession(row rowScanner) (negotiation.Session, error) {
	var sess negotiation.Session
	var finalPrice, discount sql.NullFloat64
	var referralCode, referredBy sql.NullString
	var endedAt sql.NullTime

	err := row.Scan(&sess.ID, &sess.SessionID, &sess.ProductName, &sess.StartingPrice, &sess.CurrentPrice,
		&sess.MinimumPrice, &finalPrice, &sess.DealClosed, &discount, &referralCode, &referredBy,
		&sess.CreatedAt, &endedAt)
	if err == sql.ErrNoRows {
		return negotiation.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return negotiation.Session{}, err
	}

	if finalPrice.Valid {
		sess.FinalPrice = &finalPrice.Float64
	}
	if discount.Valid {
		sess.DiscountPercentage = &discount.Float64
	}
	sess.ReferralCode = referralCode.String
	sess.ReferredBy = referredBy.String
	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return sess, nil
}

func (s *MySQL) scanEntry(row rowScanner) (waitlist.Entry, error) {
	var e waitlist.Entry
	var referralCode, referredBy sql.NullString

	err := row.Scan(&e.ID, &e.ContactType, &e.ContactValue, &e.Source, &referralCode, &referredBy, &e.ReferralCount, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return waitlist.Entry{}, ErrEntryNotFound
	}
	if err != nil {
		return waitlist.Entry{}, err
	}

	e.ReferralCode = referralCode.String
	e.ReferredBy = referredBy.String
	return e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

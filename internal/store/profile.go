package store

import (
	"database/sql"
	"fmt"

	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/plan"
)

type ProfileStore struct {
	db *sql.DB
}

func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

func scanProfile(scanner interface{ Scan(...any) error }) (*model.UserProfile, error) {
	var p model.UserProfile
	var stripeID sql.NullString
	err := scanner.Scan(&p.ID, &p.UserID, &p.Plan, &stripeID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if stripeID.Valid {
		p.StripeCustomerID = &stripeID.String
	}
	return &p, nil
}

const profileCols = `id, user_id, plan, stripe_customer_id, created_at, updated_at`

func (s *ProfileStore) GetByUserID(userID int64) (*model.UserProfile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM user_profiles WHERE user_id = ?`, userID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// GetOrCreate returns the user's profile, creating a free-plan row on first
// access. Profiles are never deleted by the application.
func (s *ProfileStore) GetOrCreate(userID int64) (*model.UserProfile, error) {
	p, err := s.GetByUserID(userID)
	if err != nil || p != nil {
		return p, err
	}

	_, err = s.db.Exec(
		`INSERT INTO user_profiles (user_id, plan) VALUES (?, ?)
		 ON CONFLICT(user_id) DO NOTHING`,
		userID, plan.Free,
	)
	if err != nil {
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return s.GetByUserID(userID)
}

// MarkPlus upgrades the user to the plus plan, creating the profile row if
// it does not exist yet. The upsert makes repeat confirmations (page reload
// after the checkout redirect, webhook racing the redirect) converge on the
// same single row.
func (s *ProfileStore) MarkPlus(userID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO user_profiles (user_id, plan) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET plan = excluded.plan, updated_at = CURRENT_TIMESTAMP`,
		userID, plan.Plus,
	)
	if err != nil {
		return fmt.Errorf("mark plus: %w", err)
	}
	return nil
}

func (s *ProfileStore) UpdateStripeCustomerID(userID int64, customerID string) error {
	_, err := s.db.Exec(
		`UPDATE user_profiles SET stripe_customer_id = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		customerID, userID,
	)
	if err != nil {
		return fmt.Errorf("update stripe customer id: %w", err)
	}
	return nil
}

// GetByStripeCustomerID resolves a Stripe customer back to a profile, used
// by the webhook path.
func (s *ProfileStore) GetByStripeCustomerID(customerID string) (*model.UserProfile, error) {
	row := s.db.QueryRow(`SELECT `+profileCols+` FROM user_profiles WHERE stripe_customer_id = ?`, customerID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by stripe customer: %w", err)
	}
	return p, nil
}

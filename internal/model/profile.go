package model

import (
	"time"

	"github.com/hartmanbaily-coder/losttofound/internal/plan"
)

// UserProfile carries the billing state for a user. Rows are created lazily
// on first access and never deleted.
type UserProfile struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	Plan             plan.Plan `json:"plan"`
	StripeCustomerID *string   `json:"stripe_customer_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

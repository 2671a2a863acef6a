package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/hartmanbaily-coder/losttofound/internal/plan"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
)

func checkoutEvent(t *testing.T, raw string) stripe.Event {
	t.Helper()
	return stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func profileRowCount(t *testing.T, profiles *store.ProfileStore, userID int64) int {
	t.Helper()
	p, err := profiles.GetByUserID(userID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		return 0
	}
	return 1
}

func TestCheckoutCompletedByCustomerID(t *testing.T) {
	db := setupTestDB(t)
	users := store.NewUserStore(db)
	profiles := store.NewProfileStore(db)

	user, err := users.Create("owner@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := profiles.GetOrCreate(user.ID); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := profiles.UpdateStripeCustomerID(user.ID, "cus_biscuit"); err != nil {
		t.Fatalf("save customer id: %v", err)
	}

	h := NewWebhookHandler(nil, profiles, users, testLogger())
	h.handleCheckoutCompleted(checkoutEvent(t, `{"customer":{"id":"cus_biscuit"}}`))

	p, err := profiles.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil || p.Plan != plan.Plus {
		t.Fatalf("plan after checkout = %+v, want plus", p)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM user_profiles WHERE user_id = ?`, user.ID).Scan(&rows); err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if rows != 1 {
		t.Errorf("profile rows = %d, want 1", rows)
	}
}

func TestCheckoutCompletedByEmailFallback(t *testing.T) {
	db := setupTestDB(t)
	users := store.NewUserStore(db)
	profiles := store.NewProfileStore(db)

	// No profile row exists yet; the webhook has to create one.
	user, err := users.Create("stray@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if n := profileRowCount(t, profiles, user.ID); n != 0 {
		t.Fatalf("expected no profile before webhook, got %d", n)
	}

	h := NewWebhookHandler(nil, profiles, users, testLogger())
	h.handleCheckoutCompleted(checkoutEvent(t,
		`{"customer":{"id":"cus_fresh"},"customer_details":{"email":"stray@example.com"}}`))

	p, err := profiles.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if p == nil {
		t.Fatal("webhook should have created the profile")
	}
	if p.Plan != plan.Plus {
		t.Errorf("plan = %q, want plus", p.Plan)
	}
	if p.StripeCustomerID == nil || *p.StripeCustomerID != "cus_fresh" {
		t.Errorf("stripe customer id = %v, want cus_fresh", p.StripeCustomerID)
	}
}

func TestCheckoutCompletedUnknownCustomer(t *testing.T) {
	db := setupTestDB(t)
	users := store.NewUserStore(db)
	profiles := store.NewProfileStore(db)

	h := NewWebhookHandler(nil, profiles, users, testLogger())
	h.handleCheckoutCompleted(checkoutEvent(t,
		`{"customer":{"id":"cus_nobody"},"customer_details":{"email":"nobody@example.com"}}`))

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM user_profiles`).Scan(&rows); err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if rows != 0 {
		t.Errorf("profile rows = %d, want 0 for an unmatched session", rows)
	}
}

func TestStripeWebhookUnconfigured(t *testing.T) {
	db := setupTestDB(t)
	h := NewWebhookHandler(nil, store.NewProfileStore(db), store.NewUserStore(db), testLogger())

	req := httptest.NewRequest("POST", "/webhooks/stripe", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	h.HandleStripeWebhook(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when billing is off", rec.Code)
	}
}

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hartmanbaily-coder/losttofound/internal/auth"
	"github.com/hartmanbaily-coder/losttofound/internal/plan"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
)

func TestMarkPlusIdempotent(t *testing.T) {
	db := setupTestDB(t)
	logger := testLogger()

	users := store.NewUserStore(db)
	profiles := store.NewProfileStore(db)

	user, err := users.Create("owner@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	h := NewBillingHandler(nil, profiles, users, logger)

	call := func() int {
		req := httptest.NewRequest("POST", "/api/billing/mark-plus", nil)
		req = req.WithContext(auth.WithAuth(context.Background(), auth.AuthContext{UserID: user.ID}))
		rec := httptest.NewRecorder()
		h.MarkPlus(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		if code := call(); code != http.StatusOK {
			t.Fatalf("call %d: status = %d, want 200", i+1, code)
		}
	}

	profile, err := profiles.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile == nil || profile.Plan != plan.Plus {
		t.Fatalf("profile = %+v, want plus plan", profile)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM user_profiles WHERE user_id = ?", user.ID).Scan(&count); err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if count != 1 {
		t.Errorf("profile rows = %d, want 1", count)
	}
}

func TestCheckoutWithoutStripe(t *testing.T) {
	db := setupTestDB(t)
	users := store.NewUserStore(db)
	profiles := store.NewProfileStore(db)

	user, err := users.Create("owner@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	h := NewBillingHandler(nil, profiles, users, testLogger())

	req := httptest.NewRequest("POST", "/api/billing/checkout", nil)
	req = req.WithContext(auth.WithAuth(context.Background(), auth.AuthContext{UserID: user.ID}))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when billing is unconfigured", rec.Code)
	}
}

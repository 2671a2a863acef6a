package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hartmanbaily-coder/losttofound/internal/auth"
	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/payments"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
)

type BillingHandler struct {
	stripeClient *payments.Client
	profileStore *store.ProfileStore
	userStore    *store.UserStore
	logger       *slog.Logger
}

func NewBillingHandler(
	sc *payments.Client,
	ps *store.ProfileStore,
	us *store.UserStore,
	logger *slog.Logger,
) *BillingHandler {
	return &BillingHandler{
		stripeClient: sc,
		profileStore: ps,
		userStore:    us,
		logger:       logger,
	}
}

// Checkout creates a Stripe subscription checkout session for the plus plan
// and returns its URL.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.stripeClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "billing is not configured"})
		return
	}
	userID := auth.UserID(r.Context())

	profile, err := h.ensureCustomer(userID)
	if err != nil {
		h.logger.Error("ensure stripe customer", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start checkout"})
		return
	}

	url, err := h.stripeClient.CreateCheckoutSession(*profile.StripeCustomerID)
	if err != nil {
		h.logger.Error("create checkout session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to start checkout"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Portal creates a Stripe billing portal session and returns its URL.
func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	if h.stripeClient == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "billing is not configured"})
		return
	}
	userID := auth.UserID(r.Context())

	profile, err := h.ensureCustomer(userID)
	if err != nil {
		h.logger.Error("ensure stripe customer", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to open billing portal"})
		return
	}

	returnURL := r.Header.Get("Referer")
	if returnURL == "" {
		returnURL = "/billing"
	}

	url, err := h.stripeClient.CreateBillingPortalSession(*profile.StripeCustomerID, returnURL)
	if err != nil {
		h.logger.Error("create portal session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to open billing portal"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// MarkPlus confirms the plus plan for the calling user. Safe to call any
// number of times; the browser hits it on return from a successful checkout
// and a reload repeats it.
func (h *BillingHandler) MarkPlus(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	if err := h.profileStore.MarkPlus(userID); err != nil {
		h.logger.Error("mark plus", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update plan"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "plan": "plus"})
}

// ensureCustomer loads the profile and creates a Stripe customer for it if
// one does not exist yet. The returned profile always has a customer ID.
func (h *BillingHandler) ensureCustomer(userID int64) (*model.UserProfile, error) {
	profile, err := h.profileStore.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if profile.StripeCustomerID != nil && *profile.StripeCustomerID != "" {
		return profile, nil
	}

	user, err := h.userStore.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	customerID, err := h.stripeClient.CreateCustomer(user.Email)
	if err != nil {
		return nil, err
	}
	if err := h.profileStore.UpdateStripeCustomerID(userID, customerID); err != nil {
		return nil, err
	}

	profile.StripeCustomerID = &customerID
	return profile, nil
}

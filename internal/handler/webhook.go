package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/hartmanbaily-coder/losttofound/internal/payments"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
)

// WebhookHandler upgrades accounts from Stripe events. It is the
// server-side counterpart of the browser's mark-plus call after checkout;
// either path alone is enough to land on the plus plan.
type WebhookHandler struct {
	stripeClient *payments.Client
	profileStore *store.ProfileStore
	userStore    *store.UserStore
	logger       *slog.Logger
}

func NewWebhookHandler(
	sc *payments.Client,
	ps *store.ProfileStore,
	us *store.UserStore,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		stripeClient: sc,
		profileStore: ps,
		userStore:    us,
		logger:       logger,
	}
}

func (h *WebhookHandler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	if h.stripeClient == nil {
		http.Error(w, "billing not configured", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 65536))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	event, err := h.stripeClient.ConstructWebhookEvent(body, r.Header.Get("Stripe-Signature"))
	if err != nil {
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		h.handleCheckoutCompleted(event)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handleCheckoutCompleted(event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		h.logger.Error("webhook: unmarshal checkout session", "error", err)
		return
	}

	// Prefer the customer ID we stored when checkout started; fall back to
	// the email Stripe collected.
	if sess.Customer != nil {
		profile, err := h.profileStore.GetByStripeCustomerID(sess.Customer.ID)
		if err != nil {
			h.logger.Error("webhook: lookup profile by customer", "error", err)
			return
		}
		if profile != nil {
			if err := h.profileStore.MarkPlus(profile.UserID); err != nil {
				h.logger.Error("webhook: mark plus", "error", err)
				return
			}
			h.logger.Info("webhook: checkout completed", "user_id", profile.UserID)
			return
		}
	}

	if sess.CustomerDetails == nil || sess.CustomerDetails.Email == "" {
		h.logger.Warn("webhook: checkout session has no matchable customer")
		return
	}

	user, err := h.userStore.GetByEmail(sess.CustomerDetails.Email)
	if err != nil {
		h.logger.Error("webhook: lookup user by email", "error", err)
		return
	}
	if user == nil {
		h.logger.Warn("webhook: no account for checkout email")
		return
	}

	if _, err := h.profileStore.GetOrCreate(user.ID); err != nil {
		h.logger.Error("webhook: create profile", "error", err)
		return
	}
	if sess.Customer != nil {
		if err := h.profileStore.UpdateStripeCustomerID(user.ID, sess.Customer.ID); err != nil {
			h.logger.Error("webhook: save customer id", "error", err)
		}
	}
	if err := h.profileStore.MarkPlus(user.ID); err != nil {
		h.logger.Error("webhook: mark plus", "error", err)
		return
	}

	h.logger.Info("webhook: checkout completed", "user_id", user.ID)
}

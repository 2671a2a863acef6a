package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hartmanbaily-coder/losttofound/internal/auth"
	"github.com/hartmanbaily-coder/losttofound/internal/email"
	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/push"
	"github.com/hartmanbaily-coder/losttofound/internal/report"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
	"github.com/hartmanbaily-coder/losttofound/internal/websocket"
)

// FinderHandler accepts sighting reports from the public pet page and fans
// the report out to the owner: database row, live dashboard, email, push.
type FinderHandler struct {
	petStore     *store.PetStore
	messageStore *store.FinderMessageStore
	userStore    *store.UserStore
	pushStore    *store.PushStore
	emailClient  *email.Client
	pushService  *push.Service
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewFinderHandler(
	ps *store.PetStore,
	ms *store.FinderMessageStore,
	us *store.UserStore,
	pss *store.PushStore,
	ec *email.Client,
	svc *push.Service,
	hub *websocket.Hub,
	logger *slog.Logger,
) *FinderHandler {
	return &FinderHandler{
		petStore:     ps,
		messageStore: ms,
		userStore:    us,
		pushStore:    pss,
		emailClient:  ec,
		pushService:  svc,
		hub:          hub,
		logger:       logger,
	}
}

type finderMessageRequest struct {
	PetID           string `json:"pet_id"`
	ReportType      string `json:"report_type"`
	Message         string `json:"message"`
	GeneralLocation string `json:"general_location"`
}

func (h *FinderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req finderMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	kind := report.Kind(req.ReportType)
	message, err := report.Validate(req.PetID, kind, req.Message)
	if err != nil {
		if report.IsValidation(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("validate report", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to submit report"})
		return
	}

	p, err := h.petStore.GetByID(req.PetID)
	if err != nil {
		h.logger.Error("get pet for report", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to submit report"})
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
		return
	}

	msg, err := h.messageStore.Create(p.ID, kind, message, optString(req.GeneralLocation))
	if err != nil {
		h.logger.Error("create finder message", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to submit report"})
		return
	}

	h.hub.NotifyUser(p.UserID, websocket.NewMessage("finder_message", "created", msg.ID, map[string]any{
		"pet_id":      p.ID,
		"pet_name":    p.Name,
		"report_type": string(msg.ReportType),
	}))

	// External notifications must not hold up the finder's response.
	go h.notifyOwner(p, msg)

	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": msg.ID})
}

func (h *FinderHandler) notifyOwner(p *model.Pet, msg *model.FinderMessage) {
	if h.emailClient != nil && h.emailClient.Configured() {
		to := ""
		if p.ContactEmailPrimary != nil && *p.ContactEmailPrimary != "" {
			to = *p.ContactEmailPrimary
		} else if owner, err := h.userStore.GetByID(p.UserID); err == nil && owner != nil {
			to = owner.Email
		}
		if to != "" {
			if err := h.emailClient.SendFinderReport(to, p.Name, msg); err != nil {
				h.logger.Error("send finder report email", "error", err, "pet_id", p.ID)
			}
		}
	}

	if h.pushService != nil && h.pushService.Configured() {
		subs, err := h.pushStore.ListByUser(p.UserID)
		if err != nil {
			h.logger.Error("list push subscriptions", "error", err)
			return
		}
		payload := push.FinderReportPayload(p.Name, msg.ReportType)
		for i := range subs {
			if err := h.pushService.Send(&subs[i], payload); err != nil {
				if errors.Is(err, push.ErrExpired) {
					h.pushStore.DeleteByEndpoint(subs[i].Endpoint)
					continue
				}
				h.logger.Error("send push", "error", err, "endpoint", subs[i].Endpoint)
			}
		}
	}
}

// ListMessages returns every finder message across the caller's pets,
// newest first. Backs the dashboard inbox.
func (h *FinderHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	msgs, err := h.messageStore.ListForOwner(userID)
	if err != nil {
		h.logger.Error("list finder messages", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list messages"})
		return
	}
	if msgs == nil {
		msgs = []model.FinderMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

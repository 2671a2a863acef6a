package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hartmanbaily-coder/losttofound/internal/auth"
	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/pet"
	"github.com/hartmanbaily-coder/losttofound/internal/photo"
	"github.com/hartmanbaily-coder/losttofound/internal/plan"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
	"github.com/hartmanbaily-coder/losttofound/internal/websocket"
)

const maxPhotoUploadBytes = 10 << 20 // 10 MB

type PetHandler struct {
	petStore     *store.PetStore
	messageStore *store.FinderMessageStore
	profileStore *store.ProfileStore
	photoStorage *photo.Storage
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewPetHandler(
	ps *store.PetStore,
	ms *store.FinderMessageStore,
	prs *store.ProfileStore,
	storage *photo.Storage,
	hub *websocket.Hub,
	logger *slog.Logger,
) *PetHandler {
	return &PetHandler{
		petStore:     ps,
		messageStore: ms,
		profileStore: prs,
		photoStorage: storage,
		hub:          hub,
		logger:       logger,
	}
}

type createPetRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createPetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	profile, err := h.profileStore.GetOrCreate(userID)
	if err != nil {
		h.logger.Error("load profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}

	count, err := h.petStore.CountByUser(userID)
	if err != nil {
		h.logger.Error("count pets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to count pets"})
		return
	}

	if d := plan.CanCreatePet(profile.Plan, count); !d.Allowed {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": d.Reason})
		return
	}

	p, err := h.petStore.Create(userID, req.Name, req.Description)
	if err != nil {
		h.logger.Error("create pet", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create pet"})
		return
	}

	h.hub.NotifyUser(userID, websocket.NewMessage("pet", "created", p.ID, nil))
	writeJSON(w, http.StatusCreated, p)
}

func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	pets, err := h.petStore.ListByUser(userID)
	if err != nil {
		h.logger.Error("list pets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list pets"})
		return
	}
	if pets == nil {
		pets = []model.Pet{}
	}
	writeJSON(w, http.StatusOK, pets)
}

func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	p, err := h.petStore.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get pet", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get pet"})
		return
	}
	if p == nil || p.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type updatePetRequest struct {
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	BehaviorNotes *string `json:"behavior_notes"`
}

// Update rewrites the display fields. Status, contacts, travel mode and
// photos each have their own endpoint.
func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	petID := r.PathValue("id")

	var req updatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if err := h.petStore.UpdateProfile(petID, userID, req.Name, req.Description, req.BehaviorNotes); err != nil {
		if errors.Is(err, store.ErrNotOwned) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
			return
		}
		h.logger.Error("update pet profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update pet"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *PetHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	petID := r.PathValue("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	p, err := h.petStore.GetByID(petID)
	if err != nil {
		h.logger.Error("load pet", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		return
	}
	if p == nil || p.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
		return
	}

	target, ok := pet.Transition(p.Status, pet.Status(req.Status))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "status must be home, lost, or found"})
		return
	}

	if err := h.petStore.UpdateStatus(petID, userID, target); err != nil {
		if errors.Is(err, store.ErrNotOwned) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
			return
		}
		h.logger.Error("update pet status", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		return
	}

	h.hub.NotifyUser(userID, websocket.NewMessage("pet", "status_changed", petID, map[string]any{
		"status": string(target),
	}))
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "status": string(target)})
}

type contactsRequest struct {
	ContactEmailPrimary string `json:"contact_email_primary"`
	ContactEmailBackup  string `json:"contact_email_backup"`
	ContactPhonePrimary string `json:"contact_phone_primary"`
	ContactPhoneBackup  string `json:"contact_phone_backup"`
}

func (h *PetHandler) UpdateContacts(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	petID := r.PathValue("id")

	profile, err := h.profileStore.GetOrCreate(userID)
	if err != nil {
		h.logger.Error("load profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}
	if d := plan.CanEditContactFields(profile.Plan); !d.Allowed {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": d.Reason})
		return
	}

	var req contactsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	err = h.petStore.UpdateContacts(petID, userID,
		optString(req.ContactEmailPrimary),
		optString(req.ContactEmailBackup),
		optString(req.ContactPhonePrimary),
		optString(req.ContactPhoneBackup),
	)
	if err != nil {
		if errors.Is(err, store.ErrNotOwned) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
			return
		}
		h.logger.Error("update contacts", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update contacts"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type travelRequest struct {
	IsTravelMode   bool     `json:"is_travel_mode"`
	TravelCity     string   `json:"travel_city"`
	TravelRegion   string   `json:"travel_region"`
	TravelRadiusKm *float64 `json:"travel_radius_km"`
	TravelNotes    string   `json:"travel_notes"`
}

func (h *PetHandler) UpdateTravel(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	petID := r.PathValue("id")

	profile, err := h.profileStore.GetOrCreate(userID)
	if err != nil {
		h.logger.Error("load profile", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load profile"})
		return
	}
	if d := plan.CanEditTravelMode(profile.Plan); !d.Allowed {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": d.Reason})
		return
	}

	var req travelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	err = h.petStore.UpdateTravel(petID, userID, req.IsTravelMode,
		optString(req.TravelCity),
		optString(req.TravelRegion),
		req.TravelRadiusKm,
		optString(req.TravelNotes),
	)
	if err != nil {
		if errors.Is(err, store.ErrNotOwned) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
			return
		}
		h.logger.Error("update travel mode", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update travel mode"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *PetHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	petID := r.PathValue("id")

	if !h.photoStorage.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "photo storage is not configured"})
		return
	}

	p, err := h.petStore.GetByID(petID)
	if err != nil {
		h.logger.Error("get pet", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get pet"})
		return
	}
	if p == nil || p.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	slot, err := strconv.Atoi(r.FormValue("slot"))
	if err != nil || slot < 1 || slot > model.MaxPhotoSlots {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slot must be between 1 and 3"})
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "photo file is required"})
		return
	}
	defer file.Close()

	url, err := h.photoStorage.Upload(r.Context(), userID, petID, slot,
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("upload photo", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to upload photo"})
		return
	}

	if err := h.petStore.SetPhotoURL(petID, userID, slot, &url); err != nil {
		h.logger.Error("save photo url", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save photo"})
		return
	}

	h.hub.NotifyUser(userID, websocket.NewMessage("pet", "photo_uploaded", petID, map[string]any{
		"slot": slot,
		"url":  url,
	}))
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "slot": slot, "url": url})
}

func (h *PetHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	petID := r.PathValue("id")

	slot, err := strconv.Atoi(r.PathValue("slot"))
	if err != nil || slot < 1 || slot > model.MaxPhotoSlots {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slot must be between 1 and 3"})
		return
	}

	p, err := h.petStore.GetByID(petID)
	if err != nil {
		h.logger.Error("get pet", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get pet"})
		return
	}
	if p == nil || p.UserID != userID {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pet not found"})
		return
	}

	urls := []*string{p.PhotoURL, p.PhotoURL2, p.PhotoURL3}
	if existing := urls[slot-1]; existing != nil && *existing != "" && h.photoStorage.Configured() {
		// Best effort; the row update below is what matters.
		if err := h.photoStorage.Delete(r.Context(), *existing); err != nil {
			h.logger.Warn("delete photo object", "error", err)
		}
	}

	if err := h.petStore.SetPhotoURL(petID, userID, slot, nil); err != nil {
		h.logger.Error("clear photo url", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete photo"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Messages returns the finder messages for one of the caller's pets.
func (h *PetHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	msgs, err := h.messageStore.ListByPet(r.PathValue("id"), userID)
	if err != nil {
		h.logger.Error("list pet messages", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list messages"})
		return
	}
	if msgs == nil {
		msgs = []model.FinderMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

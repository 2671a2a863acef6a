package handler

import (
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/hartmanbaily-coder/losttofound/internal/auth"
	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/pet"
	"github.com/hartmanbaily-coder/losttofound/internal/plan"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
)

// PageHandler renders the HTML pages. The public pet page and the lost
// board are reachable without a session; everything else sits behind auth.
type PageHandler struct {
	petStore     *store.PetStore
	messageStore *store.FinderMessageStore
	profileStore *store.ProfileStore
	baseURL      string
	billingOn    bool
	templates    *template.Template
	logger       *slog.Logger
}

func NewPageHandler(
	ps *store.PetStore,
	ms *store.FinderMessageStore,
	prs *store.ProfileStore,
	baseURL string,
	billingOn bool,
	logger *slog.Logger,
) *PageHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/*.html"))
	return &PageHandler{
		petStore:     ps,
		messageStore: ms,
		profileStore: prs,
		baseURL:      baseURL,
		billingOn:    billingOn,
		templates:    tmpl,
		logger:       logger,
	}
}

func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, "landing.html", map[string]any{
		"Title": "LostToFound",
	})
}

// publicPetView is the pet as the world sees it. Contact fields are
// deliberately absent from the type so no template can leak them.
type publicPetView struct {
	ID             string
	Name           string
	Slug           string
	Status         pet.Status
	Description    *string
	BehaviorNotes  *string
	Photos         []string
	IsTravelMode   bool
	TravelLocation string
	TravelNotes    *string
}

func publicView(p *model.Pet) publicPetView {
	return publicPetView{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Status:         p.Status,
		Description:    p.Description,
		BehaviorNotes:  p.BehaviorNotes,
		Photos:         p.Photos(),
		IsTravelMode:   p.IsTravelMode,
		TravelLocation: p.TravelLocation(),
		TravelNotes:    p.TravelNotes,
	}
}

func (h *PageHandler) PublicPet(w http.ResponseWriter, r *http.Request) {
	p, err := h.petStore.GetBySlug(r.PathValue("slug"))
	if err != nil {
		h.logger.Error("get pet by slug", "error", err)
		http.Error(w, "failed to load pet", http.StatusInternalServerError)
		return
	}
	if p == nil {
		http.NotFound(w, r)
		return
	}

	h.render(w, "pet_public.html", map[string]any{
		"Title": p.Name + " — LostToFound",
		"Pet":   publicView(p),
	})
}

func (h *PageHandler) LostBoard(w http.ResponseWriter, r *http.Request) {
	pets, err := h.petStore.ListLost()
	if err != nil {
		h.logger.Error("list lost pets", "error", err)
		http.Error(w, "failed to load lost board", http.StatusInternalServerError)
		return
	}

	views := make([]publicPetView, 0, len(pets))
	for i := range pets {
		views = append(views, publicView(&pets[i]))
	}

	h.render(w, "lost_board.html", map[string]any{
		"Title": "Lost pets — LostToFound",
		"Pets":  views,
	})
}

type dashboardStats struct {
	TotalPets   int
	LostCount   int
	TravelCount int
	Messages7d  int
	Messages30d int
}

func buildStats(pets []model.Pet, msgs []model.FinderMessage, now time.Time) dashboardStats {
	stats := dashboardStats{TotalPets: len(pets)}
	for i := range pets {
		if pets[i].Status == pet.StatusLost {
			stats.LostCount++
		}
		if pets[i].IsTravelMode {
			stats.TravelCount++
		}
	}
	for i := range msgs {
		age := now.Sub(msgs[i].CreatedAt)
		if age <= 7*24*time.Hour {
			stats.Messages7d++
		}
		if age <= 30*24*time.Hour {
			stats.Messages30d++
		}
	}
	return stats
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	pets, err := h.petStore.ListByUser(userID)
	if err != nil {
		h.logger.Error("list pets", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	msgs, err := h.messageStore.ListForOwner(userID)
	if err != nil {
		h.logger.Error("list messages", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	profile, err := h.profileStore.GetOrCreate(userID)
	if err != nil {
		h.logger.Error("load profile", "error", err)
		http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	petNames := make(map[string]string, len(pets))
	for i := range pets {
		petNames[pets[i].ID] = pets[i].Name
	}

	h.render(w, "dashboard.html", map[string]any{
		"Title":    "Dashboard — LostToFound",
		"Pets":     pets,
		"Messages": msgs,
		"PetNames": petNames,
		"Plan":     profile.Plan,
		"IsPlus":   profile.Plan == plan.Plus,
		"Stats":    buildStats(pets, msgs, time.Now()),
	})
}

func (h *PageHandler) Billing(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	profile, err := h.profileStore.GetOrCreate(userID)
	if err != nil {
		h.logger.Error("load profile", "error", err)
		http.Error(w, "failed to load billing", http.StatusInternalServerError)
		return
	}

	h.render(w, "billing.html", map[string]any{
		"Title":     "Billing — LostToFound",
		"Plan":      profile.Plan,
		"IsPlus":    profile.Plan == plan.Plus,
		"BillingOn": h.billingOn,
		"Status":    r.URL.Query().Get("status"),
	})
}

func (h *PageHandler) Poster(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	profile, err := h.profileStore.GetOrCreate(userID)
	if err != nil {
		h.logger.Error("load profile", "error", err)
		http.Error(w, "failed to load poster", http.StatusInternalServerError)
		return
	}
	if d := plan.CanGeneratePoster(profile.Plan); !d.Allowed {
		http.Error(w, d.Reason, http.StatusForbidden)
		return
	}

	p, err := h.petStore.GetBySlug(r.PathValue("slug"))
	if err != nil {
		h.logger.Error("get pet by slug", "error", err)
		http.Error(w, "failed to load poster", http.StatusInternalServerError)
		return
	}
	if p == nil || p.UserID != userID {
		http.NotFound(w, r)
		return
	}

	h.render(w, "poster.html", map[string]any{
		"Title":     "Poster — " + p.Name,
		"Pet":       p,
		"PublicURL": h.baseURL + "/p/" + p.Slug,
	})
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("template error: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hartmanbaily-coder/losttofound/internal/middleware"
	"github.com/hartmanbaily-coder/losttofound/internal/store"
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	profileStore *store.ProfileStore
	templates    *template.Template
	logger       *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ss *store.SessionStore,
	ps *store.ProfileStore,
	logger *slog.Logger,
) *AuthHandler {
	tmpl := template.Must(template.ParseGlob("web/templates/auth_*.html"))
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		profileStore: ps,
		templates:    tmpl,
		logger:       logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "auth_login.html", nil)
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.templates.ExecuteTemplate(w, "auth_register.html", nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	emailAddr := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		h.templates.ExecuteTemplate(w, "auth_register.html", map[string]any{
			"Error": "A valid email address is required",
			"Email": emailAddr,
		})
		return
	}
	if len(password) < 8 {
		h.templates.ExecuteTemplate(w, "auth_register.html", map[string]any{
			"Error": "Password must be at least 8 characters",
			"Email": emailAddr,
		})
		return
	}

	existing, err := h.userStore.GetByEmail(emailAddr)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		h.templates.ExecuteTemplate(w, "auth_register.html", map[string]any{
			"Error": "An account with that email already exists",
			"Email": emailAddr,
		})
		return
	}

	user, err := h.userStore.Create(emailAddr, password)
	if err != nil {
		h.logger.Error("create user", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	// Every account starts on the free plan.
	if _, err := h.profileStore.GetOrCreate(user.ID); err != nil {
		h.logger.Error("create profile", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	h.startSession(w, r, user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	emailAddr := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if emailAddr == "" || password == "" {
		h.templates.ExecuteTemplate(w, "auth_login.html", map[string]any{
			"Error": "Email and password are required",
			"Email": emailAddr,
		})
		return
	}

	user, err := h.userStore.Authenticate(emailAddr, password)
	if err != nil {
		h.logger.Error("login", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// Same message for unknown email and wrong password.
		h.templates.ExecuteTemplate(w, "auth_login.html", map[string]any{
			"Error": "Invalid email or password",
			"Email": emailAddr,
		})
		return
	}

	h.startSession(w, r, user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if sess, err := h.sessionStore.GetByToken(cookie.Value); err == nil && sess != nil {
			h.sessionStore.Delete(sess.ID)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID int64) {
	sess, err := h.sessionStore.Create(userID)
	if err != nil {
		h.logger.Error("create session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60, // matches session TTL
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/swaroop-public12/dresscatalogue/internal/auth"
	"github.com/swaroop-public12/dresscatalogue/internal/shop"
)

type HomeHandler struct {
	Shop         *shop.Service
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
	Tokens       auth.Tokens
	SoldStampURL string
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	items, err := h.Shop.Items(r.Context())
	if err != nil {
		slog.Error("Failed to load catalogue", "error", err)
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	publicSession, _ := h.SessionStore.Get(r, "public-session")
	adminSession, _ := h.SessionStore.Get(r, "admin-session")

	isAdmin := false
	if token, ok := adminSession.Values["token"].(string); ok {
		if _, err := h.Tokens.Parse(token); err == nil {
			isAdmin = true
		}
	}

	data := map[string]interface{}{
		"Items":        items,
		"Flashes":      GetFlash(publicSession),
		"CsrfField":    csrf.TemplateField(r),
		"SoldStampURL": h.SoldStampURL,
		"IsAdmin":      isAdmin,
	}
	publicSession.Save(r, w)
	tmpl.Execute(w, data)
}

// Like handles the Interested button on the public catalogue.
func (h *HomeHandler) Like(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "public-session")
	defer session.Save(r, w)

	id := r.FormValue("id")
	found, err := h.Shop.Like(r.Context(), id)
	if err != nil {
		slog.Error("Like failed", "id", id, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Something went wrong. Please try again."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if !found {
		session.AddFlash(FlashMessage{Type: "error", Message: "That item no longer exists."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Thanks for your interest!"})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/swaroop-public12/dresscatalogue/internal/admins"
	"github.com/swaroop-public12/dresscatalogue/internal/auth"
	"github.com/swaroop-public12/dresscatalogue/internal/shop"
)

type contextKey string

const sessionContextKey contextKey = "admin-session"

type AdminHandler struct {
	Shop         *shop.Service
	Admins       *admins.Directory
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	Tokens       auth.Tokens
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("login.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")

	username := r.FormValue("username")
	password := r.FormValue("password")

	ok, err := h.Admins.VerifyLogin(r.Context(), username, password)
	if err != nil {
		slog.Error("Login check failed", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !ok {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid username or password"})
		session.Save(r, w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	token, err := h.Tokens.Issue(username)
	if err != nil {
		slog.Error("Failed to issue session token", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	session.Values["token"] = token
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + username + "!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful, redirecting to /admin", "username", username)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (h *AdminHandler) SignupGet(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("signup.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) SignupPost(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" || password == "" {
		session.AddFlash(FlashMessage{Type: "error", Message: "Username and password are required."})
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	taken, err := h.Admins.Exists(r.Context(), username)
	if err != nil {
		slog.Error("Signup existence check failed", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Internal Server Error"})
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}
	if taken {
		session.AddFlash(FlashMessage{Type: "error", Message: "That username is already taken."})
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	if err := h.Admins.SignUp(r.Context(), username, password); err != nil {
		slog.Error("Signup failed", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not create the account."})
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Account created. Please log in."})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	delete(session.Values, "token")
	session.Options.MaxAge = -1 // Expire immediately
	session.AddFlash(FlashMessage{Type: "success", Message: "Logged out successfully!"})
	session.Save(r, w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AuthMiddleware validates the session token and attaches the parsed session
// to the request context. Expired tokens send the admin back to the login
// page.
func (h *AdminHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, "admin-session")
		token, _ := session.Values["token"].(string)
		sess, err := h.Tokens.Parse(token)
		if err != nil {
			slog.Info("AuthMiddleware: no valid session, redirecting to /login", "path", r.URL.Path)
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess)))
	}
}

func sessionFrom(r *http.Request) *auth.Session {
	sess, _ := r.Context().Value(sessionContextKey).(*auth.Session)
	return sess
}

// Dashboard lists every catalogue row with its sold toggle.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := h.Shop.Items(r.Context())
	if err != nil {
		slog.Error("Failed to load catalogue", "error", err)
		http.Error(w, "Error fetching items", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"Items":     items,
		"Flashes":   GetFlash(session),
		"CsrfField": csrf.TemplateField(r),
		"Username":  sessionFrom(r).Username,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *AdminHandler) AddItemForm(w http.ResponseWriter, r *http.Request) {
	tmpl := h.Templates.Get("admin_add_item.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	session, _ := h.SessionStore.Get(r, "admin-session")
	data := map[string]interface{}{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// CreateItem collects the add-item form and hands it to the shop service,
// which runs the full publish-and-append flow.
func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		session.AddFlash(FlashMessage{Type: "error", Message: "File too large. Max 10MB."})
		http.Redirect(w, r, "/admin/items/new", http.StatusSeeOther)
		return
	}

	name := r.FormValue("name")
	price, priceErr := strconv.ParseFloat(r.FormValue("price"), 64)
	discount, discountErr := strconv.ParseFloat(r.FormValue("discount"), 64)
	if r.FormValue("discount") == "" {
		discount, discountErr = 0, nil
	}
	sold := r.FormValue("sold") == "on"

	if priceErr != nil || discountErr != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Price and discount must be numbers."})
		http.Redirect(w, r, "/admin/items/new", http.StatusSeeOther)
		return
	}

	var raw []byte
	if file, _, err := r.FormFile("image"); err == nil {
		defer file.Close()
		raw, err = io.ReadAll(file)
		if err != nil {
			session.AddFlash(FlashMessage{Type: "error", Message: "Could not read the image file."})
			http.Redirect(w, r, "/admin/items/new", http.StatusSeeOther)
			return
		}
	}

	item, err := h.Shop.AddItem(r.Context(), sessionFrom(r), shop.AddItemInput{
		Name:     name,
		Price:    price,
		Discount: discount,
		Sold:     sold,
		Image:    raw,
	})
	if err != nil {
		switch {
		case errors.Is(err, shop.ErrValidation):
			session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		case errors.Is(err, shop.ErrUnauthorized):
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		default:
			slog.Error("Add item failed", "error", err)
			session.AddFlash(FlashMessage{Type: "error", Message: "Could not add the item. Please try again."})
		}
		http.Redirect(w, r, "/admin/items/new", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Item " + item.ID + " added successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// ToggleSold flips the sold flag of one item.
func (h *AdminHandler) ToggleSold(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, "admin-session")
	defer session.Save(r, w)

	id := r.FormValue("id")
	sold := r.FormValue("sold") == "true"

	found, err := h.Shop.SetSold(r.Context(), sessionFrom(r), id, sold)
	if err != nil {
		slog.Error("Sold toggle failed", "id", id, "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: "Error updating item."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}
	if !found {
		session.AddFlash(FlashMessage{Type: "error", Message: "Item " + id + " not found."})
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Item updated successfully!"})
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

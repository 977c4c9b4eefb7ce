package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/EstateHub/marketplace-backend/internal/apperr"
	"github.com/EstateHub/marketplace-backend/internal/session"
	"github.com/EstateHub/marketplace-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxBodyBytes      = 1 << 20 // 1 MiB
)

// Handler serves /api/auth. Every dependency is injected by main.
type Handler struct {
	sessions session.Store
	users    UserStore
	resolver *Resolver
	cookies  CookieCodec
	ttl      time.Duration
	limiter  *LoginLimiter
}

func NewHandler(sessions session.Store, users UserStore, cookies CookieCodec, ttl time.Duration, limiter *LoginLimiter) *Handler {
	return &Handler{
		sessions: sessions,
		users:    users,
		resolver: NewResolver(sessions, users, cookies),
		cookies:  cookies,
		ttl:      ttl,
		limiter:  limiter,
	}
}

func (h *Handler) Resolver() *Resolver { return h.resolver }

type userEnvelope struct {
	Data struct {
		User PublicUser `json:"user"`
	} `json:"data"`
}

func writeUser(w http.ResponseWriter, status int, u *User) {
	var body userEnvelope
	body.Data.User = u.Public()
	utils.WriteJSON(w, status, body)
}

// Logout always clears the cookie, whether or not a server-side session existed.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := h.cookies.Read(r)
	h.cookies.Clear(w)

	if ok {
		if err := h.sessions.DeleteByToken(r.Context(), token); err != nil {
			utils.WriteAppError(w, "auth", err)
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.resolver.CurrentUser(r)
	if err != nil {
		utils.WriteAppError(w, "auth", err)
		return
	}
	if user == nil {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	writeUser(w, http.StatusOK, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if !h.limiter.Allow(clientKey(r)) {
		w.Header().Set("Retry-After", "60")
		utils.WriteError(w, http.StatusTooManyRequests, "Too many sign-in attempts")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email, ok := NormalizeEmail(input.Email)
	if !ok || input.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		utils.WriteAppError(w, "auth", err)
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.Password)) != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Drop any session the browser already carries before issuing a new one.
	if old, ok := h.cookies.Read(r); ok {
		if err := h.sessions.DeleteByToken(r.Context(), old); err != nil {
			log.Printf("[auth] revoke previous session: %v", err)
		}
	}

	if err := h.issueSession(w, r, user.ID); err != nil {
		utils.WriteAppError(w, "auth", err)
		return
	}

	writeUser(w, http.StatusOK, user)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string      `json:"name"`
		Email       string      `json:"email"`
		Password    string      `json:"password"`
		AccountType AccountType `json:"account_type"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	name := strings.TrimSpace(input.Name)
	email, ok := NormalizeEmail(input.Email)
	switch {
	case name == "":
		utils.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	case !ok:
		utils.WriteError(w, http.StatusBadRequest, "A valid email is required")
		return
	case len(input.Password) < minPasswordLength:
		utils.WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	if input.AccountType == "" {
		input.AccountType = AccountUser
	}
	if !input.AccountType.Valid() {
		utils.WriteError(w, http.StatusBadRequest, "Unknown account type")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Server error hashing password")
		return
	}

	user := &User{
		ID:             utils.GenerateUUID(),
		Name:           name,
		Email:          email,
		HashedPassword: string(hashed),
		Role:           "user",
		AccountType:    input.AccountType,
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			utils.WriteError(w, http.StatusConflict, "Email already registered")
			return
		}
		utils.WriteAppError(w, "auth", err)
		return
	}

	writeUser(w, http.StatusCreated, user)
}

// UpdatePassword runs behind RequireSession. Changing the password revokes
// every session of the user and signs the caller back in.
func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteAppError(w, "auth", apperr.ErrUnauthenticated)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if len(input.NewPassword) < minPasswordLength {
		utils.WriteError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	user, err := h.users.FindByID(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, "auth", err)
		return
	}
	if user == nil {
		utils.WriteAppError(w, "auth", apperr.ErrUnauthenticated)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(input.CurrentPassword)) != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid current password")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Server error hashing password")
		return
	}

	if err := h.users.UpdatePassword(r.Context(), user.ID, string(hashed)); err != nil {
		utils.WriteAppError(w, "auth", err)
		return
	}
	if err := h.sessions.DeleteByUser(r.Context(), user.ID); err != nil {
		utils.WriteAppError(w, "auth", err)
		return
	}
	if err := h.issueSession(w, r, user.ID); err != nil {
		utils.WriteAppError(w, "auth", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, err := h.sessions.Create(r.Context(), userID, h.ttl)
	if err != nil {
		return err
	}
	h.cookies.Write(w, sess.Token, h.ttl)
	return nil
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

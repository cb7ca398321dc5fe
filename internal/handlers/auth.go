package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/apperr"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

// AuthHandler serves account registration and session lifecycle endpoints.
type AuthHandler struct {
	users    UserStore
	sessions SessionManager
}

func NewAuthHandler(users UserStore, sessions SessionManager) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// userResponse is the account shape serialized to clients. Credentials and
// storage keys stay server-side.
type userResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	AvatarURL     string    `json:"avatar"`
	CoverImageURL string    `json:"coverImage"`
	CreatedAt     time.Time `json:"createdAt"`
}

type loginResponse struct {
	User   userResponse         `json:"user"`
	Tokens models.SessionTokens `json:"tokens"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		AvatarURL:     u.AvatarURL,
		CoverImageURL: u.CoverImageURL,
		CreatedAt:     u.CreatedAt,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	if req.Username == "" || req.Email == "" || req.FullName == "" {
		respondError(ctx, w, fmt.Errorf("username, email and fullName are required: %w", apperr.ErrInvalidArgument), "")
		return
	}
	if len(req.Password) < 8 {
		respondError(ctx, w, fmt.Errorf("password must be at least 8 characters: %w", apperr.ErrInvalidArgument), "")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hash),
		FullName:  req.FullName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			respondError(ctx, w, err, "username or email already taken")
			return
		}
		respondError(ctx, w, err, "")
		return
	}

	created, err := h.users.FindByID(ctx, user.ID)
	if err != nil {
		// The row exists; fall back to what we just wrote.
		created = user
	}

	logging.FromContext(ctx).Info("user registered", "user_id", user.ID, "username", user.Username)
	respondJSON(ctx, w, http.StatusCreated, toUserResponse(created), "user registered")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	if identifier == "" || req.Password == "" {
		respondError(ctx, w, fmt.Errorf("identifier and password are required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	user, err := h.findByIdentifier(r, identifier)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			respondError(ctx, w, apperr.ErrUnauthorized, "invalid credentials")
			return
		}
		respondError(ctx, w, err, "")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		respondError(ctx, w, apperr.ErrUnauthorized, "invalid credentials")
		return
	}

	tokens, err := h.sessions.Issue(ctx, user.ID)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	logging.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	respondJSON(ctx, w, http.StatusOK, loginResponse{User: toUserResponse(user), Tokens: tokens}, "login successful")
}

func (h *AuthHandler) findByIdentifier(r *http.Request, identifier string) (models.User, error) {
	if strings.Contains(identifier, "@") {
		return h.users.FindByEmail(r.Context(), identifier)
	}
	return h.users.FindByUsername(r.Context(), identifier)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}
	if req.RefreshToken == "" {
		respondError(ctx, w, fmt.Errorf("refreshToken is required: %w", apperr.ErrInvalidArgument), "")
		return
	}

	tokens, err := h.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		respondError(ctx, w, apperr.ErrUnauthorized, "invalid or expired refresh token")
		return
	}

	respondJSON(ctx, w, http.StatusOK, tokens, "session refreshed")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if req.RefreshToken != "" {
		h.sessions.Revoke(ctx, req.RefreshToken)
	}

	respondJSON(ctx, w, http.StatusOK, nil, "logged out")
}

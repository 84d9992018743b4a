// Package auth owns registration, login and the authenticated identity
// endpoint. It is the only place tokens are issued.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"github.com/suntzu974/zevis/internal/platform/middleware"
	"github.com/suntzu974/zevis/internal/token"
	"github.com/suntzu974/zevis/internal/user"
	"github.com/suntzu974/zevis/pkg/problem"
)

// RegisterRequest is the POST /auth/register payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserInfo is the public slice of a user record returned with tokens.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserInfo `json:"user"`
}

const minPasswordLength = 8

// Handler issues tokens against the user service.
type Handler struct {
	users    *user.Service
	codec    *token.Codec
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewHandler(users *user.Service, codec *token.Codec, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{users: users, codec: codec, tokenTTL: tokenTTL, logger: logger}
}

// Register mounts the public auth routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
}

// RegisterProtected mounts the routes that sit behind the auth gate.
func (h *Handler) RegisterProtected(r chi.Router) {
	r.Get("/auth/me", h.handleMe)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Invalid("Request body must be a JSON registration object").Write(w)
		return
	}

	violations := user.CreateUserRequest{Name: req.Name, Email: req.Email}.Validate()
	if len(req.Password) < minPasswordLength {
		violations = append(violations, problem.Violation{
			Field:   "password",
			Message: "password must be at least 8 characters",
		})
	}
	if len(violations) > 0 {
		problem.Invalid("One or more validation errors occurred.", violations...).Write(w)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "hash password", "error", err)
		problem.Internal().Write(w)
		return
	}

	created, err := h.users.Create(r.Context(), user.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailExists) {
			problem.Conflict("Email Conflict", "An account with this email address already exists.").Write(w)
			return
		}
		h.logger.ErrorContext(r.Context(), "create user", "error", err)
		problem.Internal().Write(w)
		return
	}

	h.writeToken(w, r, created, http.StatusCreated)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Invalid("Request body must be a JSON login object").Write(w)
		return
	}

	// Every failure mode below answers identically so the response does not
	// reveal whether the account exists.
	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil || u.PasswordHash == "" {
		problem.Unauthorized("Invalid credentials").Write(w)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		problem.Unauthorized("Invalid credentials").Write(w)
		return
	}

	h.writeToken(w, r, u, http.StatusOK)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	subject := middleware.GetSubject(r.Context())
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "non-numeric subject in verified token", "subject", subject)
		problem.Unauthorized("Invalid or expired token").Write(w)
		return
	}

	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			problem.NotFound("User Not Found", "The requested user could not be found.").Write(w)
			return
		}
		h.logger.ErrorContext(r.Context(), "load current user", "error", err)
		problem.Internal().Write(w)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) writeToken(w http.ResponseWriter, r *http.Request, u user.User, status int) {
	subject := strconv.FormatInt(u.ID, 10)
	accessToken, err := h.codec.Issue(subject, "user", h.tokenTTL)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "issue token", "error", err, "subject", subject)
		problem.Internal().Write(w)
		return
	}

	ua := useragent.New(r.UserAgent())
	browser, _ := ua.Browser()
	h.logger.InfoContext(r.Context(), "token issued",
		"subject", subject,
		"os", ua.OS(),
		"browser", browser,
		"request_id", middleware.GetRequestID(r.Context()),
	)

	writeJSON(w, status, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		User: UserInfo{
			ID:    subject,
			Name:  u.Name,
			Email: u.Email,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

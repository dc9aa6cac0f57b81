package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/isdelr/fintrack-be/internal/auth"
	"github.com/isdelr/fintrack-be/internal/mail"
	"github.com/isdelr/fintrack-be/internal/models"
	"github.com/isdelr/fintrack-be/internal/services"
	"github.com/isdelr/fintrack-be/internal/tasks"
	"github.com/rs/zerolog/log"
)

// TaskQueue runs work off the request path.
type TaskQueue interface {
	Enqueue(name string, fn tasks.Func) bool
}

// WelcomeMailer greets new users.
type WelcomeMailer interface {
	Welcome(ctx context.Context, name, email string) (string, error)
}

// UserHandler handles registration, login and the caller's profile.
type UserHandler struct {
	service      services.UserServiceProvider
	tokens       *auth.Manager
	events       services.EventServiceProvider
	mailer       WelcomeMailer
	queue        TaskQueue
	secureCookie bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.Manager, events services.EventServiceProvider, mailer WelcomeMailer, queue TaskQueue, secureCookie bool) *UserHandler {
	return &UserHandler{
		service:      service,
		tokens:       tokens,
		events:       events,
		mailer:       mailer,
		queue:        queue,
		secureCookie: secureCookie,
	}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePayload defines the structure for profile updates.
type ProfilePayload struct {
	Name   string       `json:"name"`
	Salary models.Money `json:"salary"`
}

type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload services.RegisterInput
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	payload.Role = models.RoleUser

	user, err := h.service.CreateUser(r.Context(), payload)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		writeServiceError(w, err, "Error registering user")
		return
	}

	token, err := h.issueToken(w, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("User registered")
	h.recordEvent(r.Context(), "user.register", "New user registered: "+user.Email, user.ID)
	h.enqueueWelcome(user)

	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   token,
		User:    user,
	})
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeServiceError(w, err, "Error logging in")
		return
	}

	token, err := h.issueToken(w, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// Logout clears the token cookie.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("User from token not found in DB")
		writeServiceError(w, err, "Error fetching user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateMe updates the caller's name and salary.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var payload ProfilePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, payload.Name, payload.Salary)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update user")
		writeServiceError(w, err, "Failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) issueToken(w http.ResponseWriter, user models.User) (string, error) {
	token, err := h.tokens.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	return token, nil
}

func (h *UserHandler) enqueueWelcome(user models.User) {
	if h.queue == nil || h.mailer == nil {
		return
	}
	h.queue.Enqueue("welcome-email:"+user.ID, func(ctx context.Context) error {
		_, err := h.mailer.Welcome(ctx, user.Name, user.Email)
		if errors.Is(err, mail.ErrNoTransport) {
			log.Debug().Str("user_id", user.ID).Msg("No mail transport, skipping welcome email")
			return nil
		}
		return err
	})
}

func (h *UserHandler) recordEvent(ctx context.Context, eventType, message, userID string) {
	if h.events == nil {
		return
	}
	if err := h.events.CreateEvent(ctx, eventType, "info", message, &userID); err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("Failed to record event")
	}
}

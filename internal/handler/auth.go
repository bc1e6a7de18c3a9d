package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/Tetsu-is/danceverse/internal/auth"
	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/Tetsu-is/danceverse/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid login credentials"

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}
	// Display name forms such as "Bob <bob@example.com>" are rejected.
	if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		writeError(w, http.StatusBadRequest, "invalid_email", "Unable to validate email address: invalid format")
		return
	}
	if len(req.Password) < domain.MinPasswordLength {
		writeError(w, http.StatusUnprocessableEntity, "weak_password", "Password should be at least 6 characters")
		return
	}

	// ID採番 (UUID v7)
	id, err := uuid.NewV7()
	if err != nil {
		h.internalError(w, "failed to generate uuid", err)
		return
	}

	user, err := h.opts.Users.CreateUser(ctx, id.String(), req.Email, req.Password)
	if errors.Is(err, repository.ErrDuplicateUser) {
		writeError(w, http.StatusConflict, "user_already_exists", "User already registered")
		return
	} else if err != nil {
		h.internalError(w, "failed to create user", err)
		return
	}

	session, err := h.newSession(*user)
	if err != nil {
		h.internalError(w, "failed to issue token", err)
		return
	}

	h.log.Info("user signed up", zap.String("user_id", user.ID))
	writeJSON(w, http.StatusCreated, domain.SignupResponse{User: user, Session: session})
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req domain.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.opts.Users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeError(w, http.StatusBadRequest, "invalid_credentials", invalidCredentials)
		return
	} else if err != nil {
		h.internalError(w, "failed to get user", err)
		return
	}

	userAuth, err := h.opts.Users.GetUserAuth(ctx, user.ID)
	if err != nil {
		h.internalError(w, "failed to get user auth", err)
		return
	}
	if err := h.opts.Users.VerifyPassword(userAuth.HashedPassword, req.Password); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_credentials", invalidCredentials)
		return
	}

	session, err := h.newSession(*user)
	if err != nil {
		h.internalError(w, "failed to issue token", err)
		return
	}

	writeJSON(w, http.StatusOK, domain.SigninResponse{Session: *session})
}

// signout is stateless: tokens expire on their own and the client drops its copy.
func (h *Handler) signout(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	h.log.Info("user signed out", zap.String("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	user, err := h.opts.Users.GetUserByID(r.Context(), userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		writeError(w, http.StatusUnauthorized, "user_not_found", "User from sub claim in JWT does not exist")
		return
	} else if err != nil {
		h.internalError(w, "failed to get user", err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) newSession(user domain.User) (*domain.Session, error) {
	token, exp, err := h.opts.Issuer.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &domain.Session{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

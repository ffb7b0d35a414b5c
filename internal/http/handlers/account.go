package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/aolserver/internal/auth"
	"github.com/hongminglow/aolserver/internal/http/respond"
	"github.com/hongminglow/aolserver/internal/models/dto"
	"github.com/hongminglow/aolserver/internal/storage"
)

const (
	msgMissingCredentials = "Missing account or password"
	msgPasswordTooLong    = "Password is too long"
	msgRegistered         = "Account registered."
	msgAccountExists      = "Account already exists."
	msgLoginSuccessful    = "Login successful"
	msgInvalidCredentials = "Invalid account or password"
)

// AccountHandler owns the register/login endpoints.
type AccountHandler struct {
	store  storage.UserStore
	hasher *auth.PasswordHasher
	log    *zap.SugaredLogger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(store storage.UserStore, hasher *auth.PasswordHasher, log *zap.SugaredLogger) *AccountHandler {
	return &AccountHandler{store: store, hasher: hasher, log: log}
}

// Register attaches account routes to the router.
func (h *AccountHandler) Register(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
}

func (h *AccountHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			respond.Error(w, http.StatusBadRequest, msgPasswordTooLong)
			return
		}
		h.log.Errorw("hash password", "error", err)
		respond.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if _, err := h.store.CreateUser(r.Context(), req.Account, passwordHash); err != nil {
		if errors.Is(err, storage.ErrDuplicateAccount) {
			respond.Error(w, http.StatusConflict, msgAccountExists)
			return
		}
		h.log.Errorw("create user", "account", req.Account, "error", err)
		respond.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respond.OK(w, msgRegistered)
}

func (h *AccountHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.store.FindByAccount(r.Context(), req.Account)
	if err != nil {
		// Unknown accounts and wrong passwords share one response.
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}
		h.log.Errorw("find user", "account", req.Account, "error", err)
		respond.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if !h.hasher.Verify(req.Password, user.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	respond.JSON(w, http.StatusOK, dto.LoginResponse{
		Success: true,
		Message: msgLoginSuccessful,
		Account: user.Account,
	})
}

// readCredentials decodes and checks the request body, writing a 400 on failure.
func (h *AccountHandler) readCredentials(w http.ResponseWriter, r *http.Request) (dto.CredentialsRequest, bool) {
	var req dto.CredentialsRequest
	n, err := decodeObject(w, r, &req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, bodyErrorMessage(err))
		return req, false
	}
	if n == 0 {
		respond.Error(w, http.StatusBadRequest, msgMissingBody)
		return req, false
	}
	if req.Account == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, msgMissingCredentials)
		return req, false
	}
	return req, true
}

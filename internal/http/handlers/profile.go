package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/aolserver/internal/http/respond"
	"github.com/hongminglow/aolserver/internal/models/dto"
	"github.com/hongminglow/aolserver/internal/storage"
)

const (
	msgMissingAccount = "Missing account"
	msgUserNotFound   = "User not found"
	msgProfileUpdated = "Profile updated."
)

// ProfileHandler reads and writes the about_me text of any account.
// Writes are not tied to a login; callers only need the account name.
type ProfileHandler struct {
	store storage.UserStore
	log   *zap.SugaredLogger
}

func NewProfileHandler(store storage.UserStore, log *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{store: store, log: log}
}

func (h *ProfileHandler) Register(r chi.Router) {
	r.Get("/profile/{account}", h.handleGet)
	r.Post("/profile/{account}", h.handleUpdate)
}

func (h *ProfileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	account, ok := readAccount(w, r)
	if !ok {
		return
	}

	user, err := h.store.FindByAccount(r.Context(), account)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		h.log.Errorw("find user", "account", account, "error", err)
		respond.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	respond.JSON(w, http.StatusOK, dto.ProfileResponse{Success: true, AboutMe: user.AboutMe})
}

func (h *ProfileHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	account, ok := readAccount(w, r)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if _, err := decodeObject(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, bodyErrorMessage(err))
		return
	}

	n, err := h.store.UpdateAboutMe(r.Context(), account, req.AboutMe)
	if err != nil {
		h.log.Errorw("update profile", "account", account, "error", err)
		respond.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	respond.OK(w, msgProfileUpdated)
}

func readAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	account, err := accountParam(r)
	if err != nil || account == "" {
		respond.Error(w, http.StatusBadRequest, msgMissingAccount)
		return "", false
	}
	return account, true
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hongminglow/aolserver/internal/http/respond"
	"github.com/hongminglow/aolserver/internal/storage"
)

const msgDatabaseInitialized = "Database initialized."

// InitDBHandler exposes the destructive schema reset over HTTP. It is only
// mounted when the operator enables it in configuration.
type InitDBHandler struct {
	store storage.UserStore
	log   *zap.SugaredLogger
}

func NewInitDBHandler(store storage.UserStore, log *zap.SugaredLogger) *InitDBHandler {
	return &InitDBHandler{store: store, log: log}
}

func (h *InitDBHandler) Register(r chi.Router) {
	r.Get("/initdb", h.handle)
	r.Post("/initdb", h.handle)
}

func (h *InitDBHandler) handle(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Init(r.Context(), true); err != nil {
		h.log.Errorw("reinitialize database", "error", err)
		respond.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	h.log.Warnw("users table dropped and recreated", "remote_addr", r.RemoteAddr)
	respond.OK(w, msgDatabaseInitialized)
}

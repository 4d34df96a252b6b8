package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akulikov/go-shortlink/internal/app/service"
	"github.com/akulikov/go-shortlink/internal/models"
	"github.com/akulikov/go-shortlink/internal/storage"
)

type GetHandler struct {
	service service.URLServiceIface
	logger  *zap.Logger
}

func NewGet(s service.URLServiceIface, l *zap.Logger) *GetHandler {
	return &GetHandler{
		service: s,
		logger:  l,
	}
}

// Redirect resolves a short code and issues a redirect to the stored
// original URL. The visit counter is incremented by the same storage
// statement that fetches the URL. The redirect headers are written only
// after all error handling has completed, so a redirect can never be
// misread as a failure.
func (h *GetHandler) Redirect(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	code := chi.URLParam(req, "code")

	original, err := h.service.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(res, http.StatusNotFound, models.ErrorResponse{Error: "Link not found"})
			return
		}

		h.logger.Error("redirect lookup failed", zap.String("code", code), zap.Error(err))
		writeJSON(res, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal Server Error"})
		return
	}

	res.Header().Set("Location", original)
	res.WriteHeader(http.StatusTemporaryRedirect)
}

func (h *GetHandler) PingDB(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()
	if err := h.service.PingContext(ctx); err != nil {
		http.Error(res, err.Error(), http.StatusInternalServerError)
		return
	}

	res.WriteHeader(http.StatusOK)
}

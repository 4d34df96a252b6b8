package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/akulikov/go-shortlink/internal/app/service"
	"github.com/akulikov/go-shortlink/internal/middleware"
	"github.com/akulikov/go-shortlink/internal/models"
	"github.com/akulikov/go-shortlink/internal/storage"
)

type PostHandler struct {
	urlService    service.URLServiceIface
	auth          service.AuthIface
	logger        *zap.Logger
	secureCookies bool
}

func NewPost(urlService service.URLServiceIface, auth service.AuthIface, l *zap.Logger, secureCookies bool) *PostHandler {
	return &PostHandler{
		urlService:    urlService,
		auth:          auth,
		logger:        l,
		secureCookies: secureCookies,
	}
}

func (h *PostHandler) decode(res http.ResponseWriter, req *http.Request, dst any) bool {
	err := decodeJSONBody(res, req, dst)
	if err == nil {
		return true
	}

	var mr *malformedRequest
	if errors.As(err, &mr) {
		http.Error(res, mr.msg, mr.status)
	} else {
		h.logger.Error("cannot decode request body", zap.Error(err))
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
	return false
}

// Login verifies the submitted credentials and issues the session cookie.
// Unknown usernames and wrong passwords produce the same response.
func (h *PostHandler) Login(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	var request models.LoginRequest
	if !h.decode(res, req, &request) {
		return
	}

	user, err := h.auth.Login(ctx, request.Username, request.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(res, http.StatusUnauthorized, models.LoginResponse{Success: false, Message: "Invalid credentials"})
			return
		}

		h.logger.Error("login failed", zap.Error(err))
		writeJSON(res, http.StatusInternalServerError, models.LoginResponse{Success: false, Message: "Database connection failed"})
		return
	}

	http.SetCookie(res, service.SessionCookie(user.ID, h.secureCookies))
	writeJSON(res, http.StatusOK, models.LoginResponse{Success: true, Message: "Logged in!", Role: user.Role})
}

// Shorten returns a short URL for the submitted one, minting a new code or
// surfacing the stored one when the URL was shortened before.
func (h *PostHandler) Shorten(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID, ok := middleware.UserIDFromContext(req.Context())
	if !ok {
		writeJSON(res, http.StatusUnauthorized, models.ShortenResponse{Success: false, Message: "Unauthorized. Please log in."})
		return
	}

	var request models.ShortenRequest
	if !h.decode(res, req, &request) {
		return
	}

	if request.URL == "" {
		writeJSON(res, http.StatusBadRequest, models.ShortenResponse{Success: false, Message: "URL is required"})
		return
	}

	identity, err := h.auth.Authenticate(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			writeJSON(res, http.StatusUnauthorized, models.ShortenResponse{Success: false, Message: "Unauthorized. Please log in."})
			return
		}

		h.logger.Error("session lookup failed", zap.Error(err))
		writeJSON(res, http.StatusInternalServerError, models.ShortenResponse{Success: false, Message: "Failed to create link"})
		return
	}

	result, err := h.urlService.Shorten(ctx, request.URL, identity.UserID)
	if err != nil {
		h.logger.Error("shorten failed", zap.Error(err))
		writeJSON(res, http.StatusInternalServerError, models.ShortenResponse{Success: false, Message: "Failed to create link"})
		return
	}

	if result.Existing {
		writeJSON(res, http.StatusOK, models.ShortenResponse{
			Success:  true,
			ShortURL: result.ShortURL,
			Message:  "Link retrieved from history",
		})
		return
	}

	writeJSON(res, http.StatusCreated, models.ShortenResponse{Success: true, ShortURL: result.ShortURL})
}

// RegisterUser provisions a new account. Only an admin session may call it.
// A username collision and any other store error collapse into one outward
// message; the distinct cause is only logged.
func (h *PostHandler) RegisterUser(res http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), 3*time.Second)
	defer cancel()

	userID, _ := middleware.UserIDFromContext(req.Context())

	var request models.RegisterRequest
	if !h.decode(res, req, &request) {
		return
	}

	err := h.auth.Provision(ctx, userID, request.Username, request.Password, request.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthenticated):
			writeJSON(res, http.StatusUnauthorized, models.RegisterResponse{Success: false, Message: "Unauthorized"})
		case errors.Is(err, service.ErrForbidden):
			writeJSON(res, http.StatusForbidden, models.RegisterResponse{Success: false, Message: "Forbidden: Admins only."})
		case errors.Is(err, service.ErrUnknownRole):
			writeJSON(res, http.StatusBadRequest, models.RegisterResponse{Success: false, Message: "Unknown role"})
		default:
			h.logger.Error("provisioning failed",
				zap.Bool("duplicate", errors.Is(err, storage.ErrUserExists)),
				zap.Error(err))
			writeJSON(res, http.StatusInternalServerError, models.RegisterResponse{Success: false, Message: "User already exists or database error"})
		}
		return
	}

	writeJSON(res, http.StatusOK, models.RegisterResponse{Success: true, Message: fmt.Sprintf("User %s created!", request.Username)})
}

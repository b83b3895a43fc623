package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/middleware"
	"notesmith-server/internal/service"
	"notesmith-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	validate    *validator.Validate
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	auth, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			response.BadRequest(w, err.Error())
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		response.InternalError(w, "Something went wrong")
		return
	}

	response.Created(w, auth)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	auth, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.InternalError(w, "Something went wrong")
		return
	}

	response.Success(w, auth)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		response.Unauthorized(w, "You are not logged in. Please log in to get access.")
		return
	}

	response.Success(w, map[string]interface{}{"user": user})
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	auth, err := h.authService.UpdatePassword(middleware.GetUserID(r), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncorrectPassword):
			response.Unauthorized(w, err.Error())
		case errors.Is(err, service.ErrNotFound):
			response.NotFound(w, "User not found")
		default:
			h.logger.Error("password update failed", zap.Error(err))
			response.InternalError(w, "Something went wrong")
		}
		return
	}

	response.Success(w, auth)
}

func (h *AuthHandler) UpdateViewPreference(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateViewPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	user, err := h.authService.UpdateViewPreference(middleware.GetUserID(r), req.ViewPreference)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		h.logger.Error("view preference update failed", zap.Error(err))
		response.InternalError(w, "Something went wrong")
		return
	}

	response.Success(w, map[string]interface{}{"user": user})
}

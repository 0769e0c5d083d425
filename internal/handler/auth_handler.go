package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Stewz00/chat-auth-service/internal/logging"
	"github.com/Stewz00/chat-auth-service/internal/middleware"
	"github.com/Stewz00/chat-auth-service/internal/model"
	"github.com/Stewz00/chat-auth-service/internal/response"
	"github.com/Stewz00/chat-auth-service/internal/service"
	"github.com/Stewz00/chat-auth-service/internal/validation"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *validation.Validator
	logger      *logrus.Logger
}

func NewAuthHandler(authService *service.AuthService, v *validation.Validator, logger *logrus.Logger) *AuthHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AuthHandler{
		authService: authService,
		validator:   v,
		logger:      logger,
	}
}

type RegisterResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

type LoginResponse struct {
	SessionID string           `json:"session_id"`
	User      model.PublicUser `json:"user"`
}

type UserResponse struct {
	User model.PublicUser `json:"user"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Validation(w, validation.DecodeError(err))
		return
	}
	if !h.validate(w, req) {
		return
	}

	user, err := h.authService.RegisterUser(r.Context(), model.NewUser{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		UserType:  req.UserType,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, RegisterResponse{
		Message: fmt.Sprintf("User %s registered successfully!", user.Username),
		User:    user.Public(),
	})
}

// Login checks credentials and issues a session token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	// malformed credentials get the same answer as wrong ones
	if err := h.validator.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	result, err := h.authService.LoginUser(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, LoginResponse{
		SessionID: result.SessionID,
		User:      result.User.Public(),
	})
}

// Logout drops the bearer session; it succeeds whether or not the token was live
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.LogoutUser(r.Context(), middleware.BearerToken(r)); err != nil {
		h.writeServiceError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Message{Message: "Logged out successfully"})
}

// CurrentUser returns the user of the session resolved by RequireSession
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "No session provided")
		return
	}
	response.JSON(w, http.StatusOK, UserResponse{User: user.Public()})
}

func (h *AuthHandler) validate(w http.ResponseWriter, req any) bool {
	err := h.validator.Struct(req)
	if err == nil {
		return true
	}
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		response.Validation(w, verr)
		return false
	}
	h.logger.WithError(err).Error("validator failed")
	response.InternalError(w)
	return false
}

// writeServiceError maps service errors to HTTP responses
func (h *AuthHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity):
		response.Error(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(w, "Invalid credentials")
	case errors.Is(err, service.ErrRateLimited):
		response.Error(w, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	case errors.Is(err, service.ErrInvalidSession):
		response.Unauthorized(w, "Invalid session")
	default:
		h.logger.WithError(err).Error("request failed")
		response.InternalError(w)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Stewz00/chat-auth-service/internal/logging"
	"github.com/Stewz00/chat-auth-service/internal/middleware"
	"github.com/Stewz00/chat-auth-service/internal/model"
	"github.com/Stewz00/chat-auth-service/internal/response"
	"github.com/Stewz00/chat-auth-service/internal/validation"
	"github.com/sirupsen/logrus"
)

// Responder produces the assistant reply for a prompt
type Responder interface {
	Respond(ctx context.Context, user *model.User, prompt string) (string, error)
}

// EchoResponder answers with a canned acknowledgement of the prompt
type EchoResponder struct{}

func (EchoResponder) Respond(_ context.Context, _ *model.User, prompt string) (string, error) {
	return fmt.Sprintf("Thank you for your message: \"%s\". This is a simulated AI response. "+
		"In your actual implementation, this would be processed by your OpenAI service "+
		"with chat history context and RAG enrichment.", prompt), nil
}

type ChatHandler struct {
	responder Responder
	validator *validation.Validator
	logger    *logrus.Logger
}

func NewChatHandler(responder Responder, v *validation.Validator, logger *logrus.Logger) *ChatHandler {
	if responder == nil {
		responder = EchoResponder{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ChatHandler{responder: responder, validator: v, logger: logger}
}

type ChatResponse struct {
	Response string `json:"response"`
}

type SaveChatResponse struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// Chat answers a prompt for the authenticated user
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "No session provided")
		return
	}

	var req validation.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Validation(w, validation.DecodeError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			response.Validation(w, verr)
			return
		}
		h.logger.WithError(err).Error("validator failed")
		response.InternalError(w)
		return
	}

	reply, err := h.responder.Respond(r.Context(), user, req.Prompt)
	if err != nil {
		h.logger.WithError(err).WithField("username", user.Username).Error("chat responder failed")
		response.InternalError(w)
		return
	}
	response.JSON(w, http.StatusOK, ChatResponse{Response: reply})
}

// SaveChat acknowledges a save request for the current session
func (h *ChatHandler) SaveChat(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "No session provided")
		return
	}
	h.logger.WithField("username", session.Username).Debug("chat saved")
	response.JSON(w, http.StatusOK, SaveChatResponse{
		Message:   "Chat session saved successfully",
		SessionID: session.ID,
	})
}

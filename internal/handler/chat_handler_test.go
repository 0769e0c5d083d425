package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Stewz00/chat-auth-service/internal/middleware"
	"github.com/Stewz00/chat-auth-service/internal/model"
	"github.com/Stewz00/chat-auth-service/internal/service"
	"github.com/Stewz00/chat-auth-service/internal/test"
	"github.com/Stewz00/chat-auth-service/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingResponder struct{}

func (failingResponder) Respond(context.Context, *model.User, string) (string, error) {
	return "", errors.New("upstream unavailable")
}

// sessionFor registers and logs in a user and returns the session token
func sessionFor(t *testing.T, svc *service.AuthService) string {
	t.Helper()
	ctx := context.Background()
	_, err := svc.RegisterUser(ctx, model.NewUser{
		Username: "carol@example.com", FirstName: "Carol", LastName: "C", Password: "Str0ng!Pass",
	})
	require.NoError(t, err)
	login, err := svc.LoginUser(ctx, "carol@example.com", "Str0ng!Pass")
	require.NoError(t, err)
	return login.SessionID
}

func newChatFixture(t *testing.T, responder Responder) (*ChatHandler, *service.AuthService) {
	t.Helper()
	stores := test.NewStores()
	svc := service.NewAuthService(stores.Users, stores.Sessions, stores.Attempts, stores.Hasher)
	return NewChatHandler(responder, validation.New(), nil), svc
}

func serveProtected(svc *service.AuthService, h http.HandlerFunc, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	middleware.RequireSession(svc)(h).ServeHTTP(w, req)
	return w
}

func TestChatHandler_Chat(t *testing.T) {
	handler, svc := newChatFixture(t, nil)
	token := sessionFor(t, svc)

	tests := []struct {
		name       string
		token      string
		body       string
		wantStatus int
		wantReply  string
	}{
		{
			name:       "valid prompt",
			token:      token,
			body:       `{"prompt":"hello"}`,
			wantStatus: http.StatusOK,
			wantReply:  `Thank you for your message: "hello". This is a simulated AI response.`,
		},
		{name: "empty prompt", token: token, body: `{"prompt":""}`, wantStatus: http.StatusBadRequest},
		{name: "bad json", token: token, body: `{`, wantStatus: http.StatusBadRequest},
		{name: "no session", body: `{"prompt":"hello"}`, wantStatus: http.StatusUnauthorized},
		{name: "invalid session", token: "nope", body: `{"prompt":"hello"}`, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveProtected(svc, handler.Chat, tt.token, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantReply != "" {
				var resp ChatResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Contains(t, resp.Response, tt.wantReply)
			}
		})
	}
}

func TestChatHandler_ResponderFailure(t *testing.T) {
	handler, svc := newChatFixture(t, failingResponder{})
	token := sessionFor(t, svc)

	w := serveProtected(svc, handler.Chat, token, `{"prompt":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChatHandler_SaveChat(t *testing.T) {
	handler, svc := newChatFixture(t, nil)
	token := sessionFor(t, svc)

	w := serveProtected(svc, handler.SaveChat, token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SaveChatResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Chat session saved successfully", resp.Message)
	assert.Equal(t, token, resp.SessionID)

	w = serveProtected(svc, handler.SaveChat, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

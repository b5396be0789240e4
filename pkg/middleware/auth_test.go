package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSessions struct {
	repository.SessionRepository
	byToken map[uuid.UUID]*entity.Session
	err     error
}

func (f *fakeSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byToken[token], nil
}

type fakeUsers struct {
	repository.UserRepository
	byID map[uuid.UUID]*entity.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.byID[id], nil
}

type authFixture struct {
	sessions *fakeSessions
	users    *fakeUsers
	token    uuid.UUID
	user     *entity.User
}

func newAuthFixture(role entity.UserRole) *authFixture {
	user := &entity.User{Base: entity.Base{ID: uuid.New()}, Username: "alice", Role: role, IsActive: true}
	token := uuid.New()
	return &authFixture{
		sessions: &fakeSessions{byToken: map[uuid.UUID]*entity.Session{
			token: {UserID: user.ID, Token: token, ExpiresAt: time.Now().Add(time.Hour)},
		}},
		users: &fakeUsers{byID: map[uuid.UUID]*entity.User{user.ID: user}},
		token: token,
		user:  user,
	}
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	role, _ := utils.GetRoleFromContext(r.Context())
	token, _ := utils.GetTokenFromContext(r.Context())
	utils.ResponseSuccess(w, "ok", map[string]any{
		"authenticated": ok,
		"user_id":       userID.String(),
		"role":          role,
		"token":         token,
	})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestAuthSession(t *testing.T) {
	fx := newAuthFixture(entity.RoleUser)
	handler := AuthSession(fx.sessions, fx.users, zap.NewNop())(http.HandlerFunc(echoUser))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + fx.token.String(), http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"not a uuid", "Bearer abc", http.StatusUnauthorized},
		{"unknown token", "Bearer " + uuid.NewString(), http.StatusUnauthorized},
		{"valid", "Bearer " + fx.token.String(), http.StatusOK},
		{"lowercase scheme", "bearer " + fx.token.String(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthSession_SetsContext(t *testing.T) {
	fx := newAuthFixture(entity.RoleUser)
	handler := AuthSession(fx.sessions, fx.users, zap.NewNop())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+fx.token.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec).Data.(map[string]any)
	assert.Equal(t, fx.user.ID.String(), data["user_id"])
	assert.Equal(t, "user", data["role"])
	assert.Equal(t, fx.token.String(), data["token"])
}

func TestAuthSession_InactiveUser(t *testing.T) {
	fx := newAuthFixture(entity.RoleUser)
	fx.user.IsActive = false
	handler := AuthSession(fx.sessions, fx.users, zap.NewNop())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+fx.token.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSession_RepositoryError(t *testing.T) {
	fx := newAuthFixture(entity.RoleUser)
	fx.sessions.err = errors.New("db down")
	handler := AuthSession(fx.sessions, fx.users, zap.NewNop())(http.HandlerFunc(echoUser))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+fx.token.String())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	fx := newAuthFixture(entity.RoleUser)
	handler := OptionalAuth(fx.sessions, fx.users, zap.NewNop())(http.HandlerFunc(echoUser))

	anon := httptest.NewRecorder()
	handler.ServeHTTP(anon, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	require.Equal(t, http.StatusOK, anon.Code)
	assert.Equal(t, false, decode(t, anon).Data.(map[string]any)["authenticated"])

	badReq := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	badReq.Header.Set("Authorization", "Bearer "+uuid.NewString())
	bad := httptest.NewRecorder()
	handler.ServeHTTP(bad, badReq)
	require.Equal(t, http.StatusOK, bad.Code)
	assert.Equal(t, false, decode(t, bad).Data.(map[string]any)["authenticated"])

	okReq := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
	okReq.Header.Set("Authorization", "Bearer "+fx.token.String())
	ok := httptest.NewRecorder()
	handler.ServeHTTP(ok, okReq)
	require.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, true, decode(t, ok).Data.(map[string]any)["authenticated"])
}

func TestAdmin(t *testing.T) {
	for _, tc := range []struct {
		role   entity.UserRole
		status int
	}{
		{entity.RoleUser, http.StatusForbidden},
		{entity.RoleAdmin, http.StatusOK},
	} {
		fx := newAuthFixture(tc.role)
		handler := AuthSession(fx.sessions, fx.users, zap.NewNop())(
			Admin(zap.NewNop())(http.HandlerFunc(echoUser)))

		req := httptest.NewRequest(http.MethodGet, "/api/admin/enquiries", nil)
		req.Header.Set("Authorization", "Bearer "+fx.token.String())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, string(tc.role))
	}

	rec := httptest.NewRecorder()
	Admin(zap.NewNop())(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

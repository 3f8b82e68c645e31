package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	body := transport.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p", UserType: "buyer"}

	rec := env.doJSONRequest(http.MethodPost, "/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.doJSONRequest(http.MethodPost, "/register", body, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[message](t, rec).Message, "already exists")

	rec = env.doJSONRequest(http.MethodPost, "/register", `{"username":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/register", transport.RegisterRequest{Username: "b", Email: "b@x.com", UserType: "buyer"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.register("john_doe", "both")
	env.register("buyer_only", "buyer")

	tests := []struct {
		name     string
		req      transport.LoginRequest
		wantCode int
		wantRole string
	}{
		{name: "defaults to buyer", req: transport.LoginRequest{Email: "john_doe@example.com", Password: "password123"}, wantCode: http.StatusOK, wantRole: "buyer"},
		{name: "vendor", req: transport.LoginRequest{Email: "john_doe@example.com", Password: "password123", UserType: "vendor"}, wantCode: http.StatusOK, wantRole: "vendor"},
		{name: "wrong password", req: transport.LoginRequest{Email: "john_doe@example.com", Password: "nope"}, wantCode: http.StatusUnauthorized},
		{name: "unknown email", req: transport.LoginRequest{Email: "x@example.com", Password: "password123"}, wantCode: http.StatusUnauthorized},
		{name: "right password wrong role", req: transport.LoginRequest{Email: "buyer_only@example.com", Password: "password123", UserType: "vendor"}, wantCode: http.StatusUnauthorized},
		{name: "missing fields", req: transport.LoginRequest{}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := env.doJSONRequest(http.MethodPost, "/login", tt.req, "")
		require.Equal(t, tt.wantCode, rec.Code, tt.name)
		if tt.wantCode == http.StatusUnauthorized {
			assert.Equal(t, "invalid email or password", decode[message](t, rec).Message, tt.name)
		}
		if tt.wantCode != http.StatusOK {
			continue
		}
		res := decode[transport.TokenResponse](t, rec)
		assert.Equal(t, tt.wantRole, res.UserType, tt.name)
		assert.Equal(t, "Bearer", res.TokenType)
		assert.EqualValues(t, 900, res.ExpiresIn)
		assert.NotEmpty(t, res.AccessToken)
		assert.NotEmpty(t, res.RefreshToken)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.account("jane_doe", "buyer")

	rec := env.doJSONRequest(http.MethodGet, "/me", nil, tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"jane_doe"`)

	rec = env.doJSONRequest(http.MethodPost, "/logout", transport.LogoutRequest{RefreshToken: tok.RefreshToken}, tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodGet, "/me", nil, tok.AccessToken)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token has been revoked", decode[message](t, rec).Message)

	rec = env.doJSONRequest(http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: tok.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/logout", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogout_WithoutRefreshTokenEndsSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.account("alice", "buyer")

	rotated := env.doJSONRequest(http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: tok.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rotated.Code)
	next := decode[transport.TokenResponse](t, rotated)

	rec := env.doJSONRequest(http.MethodPost, "/logout", nil, tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: next.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/me", nil, next.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "pairs minted by refresh belong to the ended session")
}

func TestRefreshTokenIsNotABearerToken(t *testing.T) {
	t.Parallel()
	mgr := newTestManager()
	mgr.RefreshSecret = mgr.AccessSecret
	env := newTestEnvWith(t, mgr)
	tok := env.account("alice", "buyer")

	rec := env.doJSONRequest(http.MethodGet, "/me", nil, tok.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodPost, "/logout", nil, tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/cart"},
	} {
		rec = env.doJSONRequest(tc.method, tc.path, nil, tok.RefreshToken)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
}

func TestRefresh_RotatesPair(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tok := env.account("vendor_one", "vendor")

	rec := env.doJSONRequest(http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: tok.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	next := decode[transport.TokenResponse](t, rec)
	assert.Equal(t, "vendor", next.UserType)
	assert.NotEqual(t, tok.RefreshToken, next.RefreshToken)

	rec = env.doJSONRequest(http.MethodPost, "/refresh", transport.RefreshRequest{RefreshToken: tok.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/me", nil, next.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/health/ready", nil, "").Code)

	sqlDB, err := env.DB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	assert.Equal(t, http.StatusServiceUnavailable, env.doJSONRequest(http.MethodGet, "/health/ready", nil, "").Code)
}

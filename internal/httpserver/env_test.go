package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/safari_vendors/internal/events"
	"github.com/Skotchmaster/safari_vendors/internal/hash"
	"github.com/Skotchmaster/safari_vendors/internal/logging"
	authmw "github.com/Skotchmaster/safari_vendors/internal/middleware/auth"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
	"github.com/Skotchmaster/safari_vendors/internal/search"
	"github.com/Skotchmaster/safari_vendors/internal/service"
	"github.com/Skotchmaster/safari_vendors/internal/testutil"
	"github.com/Skotchmaster/safari_vendors/internal/tokens"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

func TestMain(m *testing.M) {
	hash.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testEnv struct {
	t  *testing.T
	E  *echo.Echo
	DB *gorm.DB
}

func newTestManager() *tokens.Manager {
	return &tokens.Manager{
		AccessSecret:  []byte("test-access"),
		RefreshSecret: []byte("test-refresh"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, newTestManager())
}

func newTestEnvWith(t *testing.T, mgr *tokens.Manager) *testEnv {
	t.Helper()

	gdb := testutil.NewDB(t)
	r := repo.New(gdb)
	pub := events.Nop{}

	authSvc := &service.AuthService{Repo: r, Tokens: mgr, Events: pub}

	e := echo.New()
	e.Use(Common(logging.NewWithWriter(io.Discard, "error"))...)

	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Search: &search.DBEngine{Repo: r}, Events: pub}},
		CartHandler:    &CartHTTP{Svc: &service.CartService{Repo: r, Events: pub}},
		OrderHandler:   &OrderHTTP{Svc: &service.OrderService{Repo: r, Events: pub}},
		ReviewHandler:  &ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: pub}},
		Bearer:         authmw.NewBearerAuth(authSvc.Tokens.AccessSecret, authSvc),
		DB:             gdb,
	})

	return &testEnv{t: t, E: e, DB: gdb}
}

func (env *testEnv) doJSONRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	env.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(env.t, err)
			raw = string(b)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (env *testEnv) register(username, userType string) {
	env.t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/register", transport.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		UserType: userType,
	}, "")
	require.Equal(env.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (env *testEnv) login(username, userType string) transport.TokenResponse {
	env.t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/login", transport.LoginRequest{
		Email:    username + "@example.com",
		Password: "password123",
		UserType: userType,
	}, "")
	require.Equal(env.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[transport.TokenResponse](env.t, rec)
}

// account registers and logs in, returning the access token.
func (env *testEnv) account(username, userType string) transport.TokenResponse {
	env.t.Helper()
	env.register(username, userType)
	return env.login(username, userType)
}

type message struct {
	Message string `json:"message"`
}

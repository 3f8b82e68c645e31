package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

func TestAuthService_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     transport.RegisterRequest
		wantErr error
		detail  string
	}{
		{name: "missing password", req: transport.RegisterRequest{Username: "a", Email: "a@x.com", UserType: "buyer"}, wantErr: ErrValidation},
		{name: "bad email", req: transport.RegisterRequest{Username: "a", Email: "ax.com", Password: "p", UserType: "buyer"}, wantErr: ErrValidation},
		{name: "bad role", req: transport.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p", UserType: "admin"}, wantErr: ErrValidation},
		{name: "buyer", req: transport.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p", UserType: "buyer"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			res, err := f.auth.Register(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, res.Buyer)
			assert.Nil(t, res.Vendor)
			assert.NotEqual(t, "p", res.Buyer.PasswordHash)
		})
	}
}

func TestAuthService_RegisterConflict(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	req := transport.RegisterRequest{Username: "a", Email: "a@x.com", Password: "p", UserType: "buyer"}
	_, err := f.auth.Register(ctx, req)
	require.NoError(t, err)

	_, err = f.auth.Register(ctx, req)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "buyer with this email already exists", Detail(err))

	sameName := req
	sameName.Email = "other@x.com"
	_, err = f.auth.Register(ctx, sameName)
	require.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "buyer with this username already exists", Detail(err))

	req.UserType = "both"
	_, err = f.auth.Register(ctx, req)
	require.ErrorIs(t, err, ErrConflict)

	var vendors int64
	require.NoError(t, f.db.Model(&models.Vendor{}).Count(&vendors).Error)
	assert.Zero(t, vendors, "both must be all or nothing")

	assert.Equal(t, []string{"buyer_registered"}, f.pub.types())
}

func TestAuthService_LoginRefreshLogout(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, transport.RegisterRequest{Username: "v", Email: "v@x.com", Password: "secret", UserType: "both"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "v@x.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "invalid email or password", Detail(err))

	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "nobody@x.com", Password: "secret"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "v@x.com", Password: "secret", UserType: "both"})
	require.ErrorIs(t, err, ErrValidation)

	buyerLogin, err := f.auth.Login(ctx, transport.LoginRequest{Email: "V@x.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, buyerLogin.Role)

	vendorLogin, err := f.auth.Login(ctx, transport.LoginRequest{Email: "v@x.com", Password: "secret", UserType: "vendor"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, vendorLogin.Role)

	refreshed, err := f.auth.Refresh(ctx, vendorLogin.Pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, vendorLogin.ID, refreshed.ID)

	_, err = f.auth.Refresh(ctx, vendorLogin.Pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized, "refresh tokens are single use")

	_, err = f.auth.Refresh(ctx, vendorLogin.Pair.AccessToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	claims, err := f.auth.Tokens.ParseAccess(buyerLogin.Pair.AccessToken)
	require.NoError(t, err)
	caller := Caller{ID: buyerLogin.ID, Role: buyerLogin.Role}

	err = f.auth.Logout(ctx, caller, claims.ID, claims.SessionID, refreshed.Pair.RefreshToken)
	require.ErrorIs(t, err, ErrValidation, "cannot revoke another account's refresh token")

	require.NoError(t, f.auth.Logout(ctx, caller, claims.ID, claims.SessionID, buyerLogin.Pair.RefreshToken))
	require.NoError(t, f.auth.Logout(ctx, caller, claims.ID, claims.SessionID, ""), "logout is idempotent")

	revoked, err := f.auth.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.auth.Refresh(ctx, buyerLogin.Pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_LoginWrongRole(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, transport.RegisterRequest{Username: "only", Email: "only@x.com", Password: "secret", UserType: "buyer"})
	require.NoError(t, err)

	_, err = f.auth.Login(ctx, transport.LoginRequest{Email: "only@x.com", Password: "secret", UserType: "vendor"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, "invalid email or password", Detail(err))

	res, err := f.auth.Login(ctx, transport.LoginRequest{Email: "only@x.com", Password: "secret", UserType: "buyer"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleBuyer, res.Role)
}

func TestAuthService_LogoutEndsSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, transport.RegisterRequest{Username: "b", Email: "b@x.com", Password: "secret", UserType: "buyer"})
	require.NoError(t, err)

	login, err := f.auth.Login(ctx, transport.LoginRequest{Email: "b@x.com", Password: "secret"})
	require.NoError(t, err)

	rotated, err := f.auth.Refresh(ctx, login.Pair.RefreshToken)
	require.NoError(t, err)

	claims, err := f.auth.Tokens.ParseAccess(rotated.Pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, Caller{ID: login.ID, Role: login.Role}, claims.ID, claims.SessionID, ""))

	_, err = f.auth.Refresh(ctx, rotated.Pair.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "session has ended", Detail(err))

	first, err := f.auth.Tokens.ParseAccess(login.Pair.AccessToken)
	require.NoError(t, err)
	revoked, err := f.auth.IsRevoked(ctx, first.ID, first.SessionID)
	require.NoError(t, err)
	assert.True(t, revoked, "tokens issued before a refresh share the session")

	other, err := f.auth.Login(ctx, transport.LoginRequest{Email: "b@x.com", Password: "secret"})
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, other.Pair.RefreshToken)
	assert.NoError(t, err, "other sessions stay alive")
}

func TestAuthService_Me(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, transport.RegisterRequest{Username: "v", Email: "v@x.com", Password: "p", UserType: "vendor"})
	require.NoError(t, err)

	acc, err := f.auth.Me(ctx, Caller{ID: res.Vendor.ID, Role: models.RoleVendor})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, acc.AccountRole())

	_, err = f.auth.Me(ctx, Caller{ID: res.Vendor.ID + 100, Role: models.RoleVendor})
	assert.ErrorIs(t, err, ErrNotFound)
}

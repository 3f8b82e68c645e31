package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/safari_vendors/internal/events"
	"github.com/Skotchmaster/safari_vendors/internal/hash"
	"github.com/Skotchmaster/safari_vendors/internal/logging"
	"github.com/Skotchmaster/safari_vendors/internal/models"
	"github.com/Skotchmaster/safari_vendors/internal/repo"
	"github.com/Skotchmaster/safari_vendors/internal/tokens"
	"github.com/Skotchmaster/safari_vendors/internal/transport"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Manager
	Events events.Publisher
}

type RegisterResult struct {
	Buyer  *models.Buyer  `json:"buyer,omitempty"`
	Vendor *models.Vendor `json:"vendor,omitempty"`
}

type LoginResult struct {
	Pair *tokens.Pair
	Role string
	ID   uint
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*RegisterResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	userType := strings.ToLower(strings.TrimSpace(req.UserType))

	if username == "" || email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if len(req.Password) > 72 {
		return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	if userType != models.RoleBuyer && userType != models.RoleVendor && userType != models.RoleBoth {
		return nil, fmt.Errorf("%w: user_type must be buyer, vendor or both", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	res := &RegisterResult{}
	if userType == models.RoleBuyer || userType == models.RoleBoth {
		res.Buyer = &models.Buyer{Username: username, Email: email, PasswordHash: pwHash}
	}
	if userType == models.RoleVendor || userType == models.RoleBoth {
		res.Vendor = &models.Vendor{Username: username, Email: email, PasswordHash: pwHash}
	}

	if err := s.Repo.CreateAccounts(ctx, res.Buyer, res.Vendor); err != nil {
		var dup *repo.DuplicateError
		if errors.As(err, &dup) {
			return nil, fmt.Errorf("%w: %s with this %s already exists", ErrConflict, dup.Role, dup.Field)
		}
		return nil, err
	}

	if res.Buyer != nil {
		events.Emit(ctx, s.Events, events.TopicUser, fmt.Sprint(res.Buyer.ID), events.Event{"type": "buyer_registered", "buyer_id": res.Buyer.ID})
	}
	if res.Vendor != nil {
		events.Emit(ctx, s.Events, events.TopicUser, fmt.Sprint(res.Vendor.ID), events.Event{"type": "vendor_registered", "vendor_id": res.Vendor.ID})
	}

	l.Info("register_success", "user_type", userType)
	return res, nil
}

func (s *AuthService) findAccount(ctx context.Context, role, email string) (models.Account, error) {
	if role == models.RoleVendor {
		return s.Repo.FindVendorByEmail(ctx, email)
	}
	return s.Repo.FindBuyerByEmail(ctx, email)
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	role := strings.ToLower(strings.TrimSpace(req.UserType))
	if role == "" {
		role = models.RoleBuyer
	}
	l := logging.FromContext(ctx).With("svc", "auth.login", "user_type", role)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if role != models.RoleBuyer && role != models.RoleVendor {
		return nil, fmt.Errorf("%w: user_type must be buyer or vendor", ErrValidation)
	}

	account, err := s.findAccount(ctx, role, email)
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, fmt.Errorf("%w: invalid email or password", ErrInvalidCredentials)
		}
		return nil, err
	}
	if !hash.CheckPassword(account.HashedPassword(), req.Password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, fmt.Errorf("%w: invalid email or password", ErrInvalidCredentials)
	}

	pair, err := s.Tokens.Issue(account.AccountRole(), account.AccountID())
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUser, fmt.Sprint(account.AccountID()), events.Event{"type": "logged_in", "role": role, "id": account.AccountID()})
	return &LoginResult{Pair: pair, Role: account.AccountRole(), ID: account.AccountID()}, nil
}

// Refresh exchanges a refresh token for a new pair. Each refresh token works once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, fmt.Errorf("%w: refresh_token is required", ErrValidation)
	}

	claims, err := s.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	id, err := claims.AccountID()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}

	sessionRevoked, err := s.Repo.IsTokenRevoked(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sessionRevoked {
		return nil, fmt.Errorf("%w: session has ended", ErrUnauthorized)
	}

	if err := s.Repo.ConsumeToken(ctx, claims.ID, tokens.TypeRefresh); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: token has been revoked", ErrUnauthorized)
		}
		return nil, err
	}

	if _, err := s.Me(ctx, Caller{ID: id, Role: claims.Role}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrUnauthorized)
		}
		return nil, err
	}

	pair, err := s.Tokens.IssueSession(claims.Role, id, claims.SessionID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Pair: pair, Role: claims.Role, ID: id}, nil
}

// Logout ends the session the access token belongs to, so neither that token nor any
// refresh token of the session authorizes again. A supplied refresh token is also
// revoked by its own id and must belong to the caller.
func (s *AuthService) Logout(ctx context.Context, caller Caller, accessJTI, sessionID, refreshToken string) error {
	var refreshJTI string
	if refreshToken != "" {
		claims, err := s.Tokens.ParseRefresh(refreshToken)
		if err != nil {
			return fmt.Errorf("%w: invalid refresh token", ErrValidation)
		}
		id, err := claims.AccountID()
		if err != nil || id != caller.ID || claims.Role != caller.Role {
			return fmt.Errorf("%w: refresh token belongs to another account", ErrValidation)
		}
		refreshJTI = claims.ID
	}

	if err := s.Repo.RevokeToken(ctx, accessJTI, tokens.TypeAccess); err != nil {
		return err
	}
	if sessionID != "" {
		if err := s.Repo.RevokeToken(ctx, sessionID, tokens.TypeSession); err != nil {
			return err
		}
	}
	if refreshJTI != "" {
		if err := s.Repo.RevokeToken(ctx, refreshJTI, tokens.TypeRefresh); err != nil {
			return err
		}
	}

	events.Emit(ctx, s.Events, events.TopicUser, fmt.Sprint(caller.ID), events.Event{"type": "logged_out", "role": caller.Role, "id": caller.ID})
	return nil
}

// IsRevoked reports whether any of the token or session ids is on the blocklist.
func (s *AuthService) IsRevoked(ctx context.Context, ids ...string) (bool, error) {
	return s.Repo.IsTokenRevoked(ctx, ids...)
}

func (s *AuthService) Me(ctx context.Context, caller Caller) (models.Account, error) {
	var (
		account models.Account
		err     error
	)
	switch caller.Role {
	case models.RoleBuyer:
		account, err = s.Repo.GetBuyer(ctx, caller.ID)
	case models.RoleVendor:
		account, err = s.Repo.GetVendor(ctx, caller.ID)
	default:
		return nil, fmt.Errorf("%w: unknown role", ErrUnauthorized)
	}
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("%w: account not found", ErrNotFound)
		}
		return nil, err
	}
	return account, nil
}

package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
	// TypeSession marks a revoked session id rather than a single token.
	TypeSession = "session"
)

var (
	ErrMalformedSubject = errors.New("token subject is not an account id")
	ErrWrongTokenType   = errors.New("wrong token type")
)

// Claims is carried by both access and refresh tokens. Type tells the two apart and
// SessionID is shared by every pair issued since the login that started the session.
type Claims struct {
	Role      string `json:"role"`
	Type      string `json:"typ"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (c *Claims) AccountID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrMalformedSubject
	}
	return uint(id), nil
}

type Manager struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func NewJTI() string { return uuid.NewString() }

// Issue starts a new session and returns its first pair.
func (m *Manager) Issue(role string, id uint) (*Pair, error) {
	return m.IssueSession(role, id, NewJTI())
}

// IssueSession returns a fresh pair bound to an existing session.
func (m *Manager) IssueSession(role string, id uint, sid string) (*Pair, error) {
	now := time.Now().UTC()

	accessExp := now.Add(m.AccessTTL)
	accessToken, err := sign(m.AccessSecret, TypeAccess, role, id, sid, now, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := now.Add(m.RefreshTTL)
	refreshToken, err := sign(m.RefreshSecret, TypeRefresh, role, id, sid, now, refreshExp)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (m *Manager) ParseAccess(token string) (*Claims, error) {
	return parseTyped(token, m.AccessSecret, TypeAccess)
}

func (m *Manager) ParseRefresh(token string) (*Claims, error) {
	return parseTyped(token, m.RefreshSecret, TypeRefresh)
}

func parseTyped(token string, secret []byte, typ string) (*Claims, error) {
	claims, err := ClaimsFromToken(token, secret)
	if err != nil {
		return nil, err
	}
	if err := claims.Expect(typ); err != nil {
		return nil, err
	}
	return claims, nil
}

// Expect fails unless the token is of kind typ and belongs to a session.
func (c *Claims) Expect(typ string) error {
	if c.Type != typ || c.SessionID == "" {
		return ErrWrongTokenType
	}
	return nil
}

func sign(secret []byte, typ, role string, id uint, sid string, issuedAt, exp time.Time) (string, error) {
	claims := Claims{
		Role:      role,
		Type:      typ,
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func ClaimsFromToken(tokenStr string, secret []byte) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}

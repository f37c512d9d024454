package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"team-task-manager/config"
	"team-task-manager/internal/entities"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type claims struct {
	Role      entities.GlobalRole   `json:"role"`
	Teams     []entities.Membership `json:"teams"`
	TokenType string                `json:"token_type"`
	jwt.RegisteredClaims
}

// Issuer signs access and refresh tokens with separate secrets.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewIssuer builds an Issuer from auth settings.
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// IssuePair signs a fresh access and refresh token for p.
func (i *Issuer) IssuePair(p Principal) (TokenPair, error) {
	access, err := i.IssueAccess(p)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.sign(p, refreshTokenType, i.refreshTTL, i.refreshSecret, uuid.NewString())
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// IssueAccess signs an access token for p.
func (i *Issuer) IssueAccess(p Principal) (string, error) {
	return i.sign(p, accessTokenType, i.accessTTL, i.accessSecret, "")
}

// ParseAccess validates an access token and returns its principal.
func (i *Issuer) ParseAccess(token string) (*Principal, error) {
	return i.parse(token, accessTokenType, i.accessSecret)
}

// ParseRefresh validates a refresh token and returns its principal.
func (i *Issuer) ParseRefresh(token string) (*Principal, error) {
	return i.parse(token, refreshTokenType, i.refreshSecret)
}

func (i *Issuer) sign(p Principal, tokenType string, ttl time.Duration, secret []byte, jti string) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("jwt secret is empty")
	}
	now := i.now()
	teams := p.Teams
	if teams == nil {
		teams = []entities.Membership{}
	}
	c := claims{
		Role:      p.Role,
		Teams:     teams,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return s, nil
}

func (i *Issuer) parse(token, tokenType string, secret []byte) (*Principal, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret is empty", entities.ErrUnauthorized)
	}

	tok, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrUnauthorized, err)
	}

	c, _ := tok.Claims.(*claims)
	if c == nil || c.TokenType != tokenType {
		return nil, fmt.Errorf("%w: unexpected token type", entities.ErrUnauthorized)
	}
	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: invalid subject", entities.ErrUnauthorized)
	}
	if !c.Role.Valid() {
		return nil, fmt.Errorf("%w: invalid role", entities.ErrUnauthorized)
	}
	return &Principal{UserID: userID, Role: c.Role, Teams: c.Teams}, nil
}

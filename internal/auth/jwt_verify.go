package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role names used in tokens and permissions.yml lookups.
const (
	RoleDoctor       = "Doctor"
	RoleReceptionist = "Receptionist"
)

// Principal holds identity extracted from a validated token.
type Principal struct {
	UserID string
	Name   string
	Role   string
	Claims jwt.MapClaims
}

func (p *Principal) IsDoctor() bool {
	return strings.EqualFold(p.Role, RoleDoctor)
}

var (
	ErrNoToken       = errors.New("no token provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidIssuer = errors.New("invalid issuer")
	ErrMissingSub    = errors.New("missing sub claim")
)

// Verifier issues and validates HS256 bearer tokens.
type Verifier struct {
	cfg Config
	now func() time.Time
}

// NewVerifier constructs a verifier with config.
func NewVerifier(cfg Config) *Verifier {
	return &Verifier{cfg: cfg, now: time.Now}
}

// IssueToken signs a token for the given staff member.
func (v *Verifier) IssueToken(userID, name, role string) (string, time.Time, error) {
	now := v.now()
	expiresAt := now.Add(v.cfg.TokenTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"iss":  v.cfg.Issuer,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
		"name": name,
		"role": role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(v.cfg.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseAndVerifyToken verifies a bearer token, validates issuer/exp and returns Principal.
func (v *Verifier) ParseAndVerifyToken(tokenString string) (*Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrNoToken
	}
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// enforce HS256
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(v.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if iss, _ := claims["iss"].(string); iss != v.cfg.Issuer {
		return nil, ErrInvalidIssuer
	}
	// exp is mandatory
	if !claims.VerifyExpiresAt(v.now().Unix(), true) {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}

	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return &Principal{
		UserID: sub,
		Name:   name,
		Role:   role,
		Claims: claims,
	}, nil
}

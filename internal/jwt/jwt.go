package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the http-only cookie carrying the access token. The
// Authorization header takes precedence when both are present.
const CookieName = "access_token"

// ErrInvalidToken is the uniform result for every decode failure: bad
// signature, wrong algorithm, malformed input, or expiry. Callers cannot
// tell these apart; the detail stays in server logs.
var ErrInvalidToken = errors.New("invalid token")

// ErrNoToken is returned when a request carries no token at all.
var ErrNoToken = errors.New("no token in request")

// Claims is the typed token payload: the subject is the username.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

// JWT issues and validates HS256-signed bearer tokens.
type JWT struct {
	secretKey string
	exp       time.Duration
}

// New creates a JWT service with the given signing secret and token TTL.
func New(secretKey string, expiration time.Duration) *JWT {
	return &JWT{
		secretKey: secretKey,
		exp:       expiration,
	}
}

// Generate creates a signed token for the given username and role and
// returns it together with its absolute expiry.
func (j *JWT) Generate(ctx context.Context, username, role string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiry := now.Add(j.exp)

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiry, nil
}

// GetClaims parses and verifies the token string and returns its claims.
// Any failure yields ErrInvalidToken.
func (j *JWT) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Validate verifies the token signature and expiry.
func (j *JWT) Validate(ctx context.Context, tokenString string) error {
	_, err := j.GetClaims(ctx, tokenString)
	return err
}

// GetTokenFromRequest extracts the token string from the Authorization
// header, falling back to the access_token cookie. The header wins if both
// are present.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	return "", ErrNoToken
}

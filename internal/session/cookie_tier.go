package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims is the payload of a session-scoped identity cookie.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Identity json.RawMessage `json:"identity"`
}

// CookieTier is the session-scoped store: browser-session cookies holding HS256 tokens.
type CookieTier struct {
	secret []byte
}

func NewCookieTier(secret string) *CookieTier {
	return &CookieTier{secret: []byte(secret)}
}

func (t *CookieTier) Name() string { return "cookie" }

func (t *CookieTier) Get(ctx context.Context, key string) (string, bool, error) {
	r := RequestFromContext(ctx)
	if r == nil {
		return "", false, nil
	}
	c, err := r.Cookie(key)
	if errors.Is(err, http.ErrNoCookie) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return c.Value, true, nil
}

// Decode verifies the token and parses the embedded identity record.
func (t *CookieTier) Decode(raw string) (*Identity, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	if len(claims.Identity) == 0 {
		return nil, errors.New("token carries no identity claim")
	}
	return ParseIdentity(string(claims.Identity))
}

// Encode signs an identity into a cookie value valid for ttl.
func (t *CookieTier) Encode(id *Identity, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Identity: payload,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

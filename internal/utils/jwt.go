package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims custom claims for the session JWT
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey  []byte
	issuer     string
	audience   string
	expiration time.Duration
	now        func() time.Time
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(secretKey, issuer, audience string, expiration time.Duration) *JWTUtil {
	return &JWTUtil{
		secretKey:  []byte(secretKey),
		issuer:     issuer,
		audience:   audience,
		expiration: expiration,
		now:        time.Now,
	}
}

// WithClock returns a copy of ju that reads the current time from now.
func (ju *JWTUtil) WithClock(now func() time.Time) *JWTUtil {
	cp := *ju
	cp.now = now
	return &cp
}

// Expiration is the lifetime of issued tokens
func (ju *JWTUtil) Expiration() time.Duration {
	return ju.expiration
}

// GenerateToken signs a session token for the account and returns it with its expiry
func (ju *JWTUtil) GenerateToken(accountID, email, role string) (string, time.Time, error) {
	issuedAt := ju.now().Truncate(time.Second)
	expiresAt := issuedAt.Add(ju.expiration)

	claims := &SessionClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    ju.issuer,
			Audience:  jwt.ClaimStrings{ju.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ju.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ValidateToken verifies signature, issuer, audience and expiry. No clock skew is tolerated.
func (ju *JWTUtil) ValidateToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(ju.issuer),
		jwt.WithAudience(ju.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ju.now),
	)

	token, err := parser.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ju.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Token verification failures, in decreasing specificity. Verify collapses
// the jwt library's error surface into these so callers can branch without
// importing it.
var (
	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for a malformed token or a bad signature.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenPayload is returned when a token verifies but carries no user ID.
	ErrTokenPayload = errors.New("token payload missing user id")
	// ErrTokenVerification is returned for any other verification anomaly.
	ErrTokenVerification = errors.New("token verification error")
)

// Claims represents JWT claims carried by both token kinds.
type Claims struct {
	UserID uint `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies access and refresh tokens. Access and
// refresh tokens use distinct signing secrets so a leaked access token
// cannot be replayed as a refresh token. The service is stateless: there is
// no revocation list, and logout only clears the client-held cookie.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a token service with distinct access/refresh secrets.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTokenTTL returns the configured access token validity window.
func (s *TokenService) AccessTokenTTL() time.Duration { return s.accessTTL }

// RefreshTokenTTL returns the configured refresh token validity window.
func (s *TokenService) RefreshTokenTTL() time.Duration { return s.refreshTTL }

// IssueAccessToken signs a short-lived access token embedding the user ID.
func (s *TokenService) IssueAccessToken(userID uint) (string, error) {
	return sign(userID, s.accessSecret, s.accessTTL)
}

// IssueRefreshToken signs a longer-lived refresh token embedding the user ID.
// It is intended for storage in an HTTP-only cookie scoped to the refresh path.
func (s *TokenService) IssueRefreshToken(userID uint) (string, error) {
	return sign(userID, s.refreshSecret, s.refreshTTL)
}

// VerifyAccessToken verifies a token against the access secret.
func (s *TokenService) VerifyAccessToken(token string) (uint, error) {
	return verify(token, s.accessSecret)
}

// VerifyRefreshToken verifies a token against the refresh secret.
func (s *TokenService) VerifyRefreshToken(token string) (uint, error) {
	return verify(token, s.refreshSecret)
}

func sign(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify is a pure function of (token, secret); it touches no request state.
func verify(tokenString string, secret []byte) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable):
			return 0, ErrTokenInvalid
		default:
			return 0, ErrTokenVerification
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrTokenInvalid
	}
	if claims.UserID == 0 {
		return 0, ErrTokenPayload
	}
	return claims.UserID, nil
}

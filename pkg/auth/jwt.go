package auth

import (
	"errors"
	"time"

	"github.com/andreimonforte/malocozz/config"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID  uint   `json:"user_id"`
	Role    string `json:"role"`
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

// Token purposes. A token minted for one purpose is rejected when presented
// for another.
const (
	PurposeAccess        = ""
	PurposeRefresh       = "refresh"
	PurposePasswordReset = "password_reset"
)

// ResetTokenTTL bounds how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

var ErrWrongPurpose = errors.New("auth: token purpose mismatch")

func secret() []byte {
	return []byte(config.SecretKey())
}

// GenerateToken creates a signed JWT for the given user.
func GenerateToken(userID uint, role string) (string, error) {
	return sign(userID, role, PurposeAccess, 24*time.Hour)
}

// GenerateRefreshToken creates a longer-lived token used to refresh access.
func GenerateRefreshToken(userID uint, role string) (string, error) {
	return sign(userID, role, PurposeRefresh, 7*24*time.Hour)
}

// GenerateResetToken creates a short-lived token embedded in password reset
// links. It carries no role and expires after ResetTokenTTL.
func GenerateResetToken(userID uint) (string, error) {
	return sign(userID, "", PurposePasswordReset, ResetTokenTTL)
}

func sign(userID uint, role, purpose string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// ValidateResetToken validates a password reset token and returns the user ID
// it was issued for.
func ValidateResetToken(t string) (uint, error) {
	claims, err := ValidateToken(t)
	if err != nil {
		return 0, err
	}
	if claims.Purpose != PurposePasswordReset {
		return 0, ErrWrongPurpose
	}
	return claims.UserID, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

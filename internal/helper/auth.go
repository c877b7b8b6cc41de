package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/chatterly/chat_service/internal/apperr"
	"github.com/chatterly/chat_service/internal/dto"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Auth struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func SetupAuth(secret string, accessTTL, refreshTTL time.Duration) Auth {
	return Auth{
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// AccessClaims carries the full user snapshot so request handling does not
// need a store lookup per call.
type AccessClaims struct {
	User dto.UserSnapshot `json:"user"`
	jwt.RegisteredClaims
}

// RefreshClaims carries only the subject id.
type RefreshClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

func (a Auth) GenerateAccessToken(user dto.UserSnapshot) (string, error) {
	if user.ID == 0 || user.Email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	claims := &AccessClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.AccessTTL)),
		},
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

func (a Auth) GenerateRefreshToken(userID uint) (string, error) {
	if userID == 0 {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	claims := &RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.RefreshTTL)),
		},
	}

	tokenStr, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyAccessToken checks signature and expiry. An expired but otherwise
// well-signed token comes back as KindExpiredCredential so the refresh path
// can distinguish it from tampering.
func (a Auth) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	tokenString, err := stripBearer(tokenString)
	if err != nil {
		return nil, err
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, a.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Expired("token expired")
		}
		return nil, apperr.Unauthorized("invalid token")
	}
	if !token.Valid {
		return nil, apperr.Unauthorized("invalid token")
	}
	return claims, nil
}

func (a Auth) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	tokenString, err := stripBearer(tokenString)
	if err != nil {
		return nil, err
	}

	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, a.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Expired("refresh token expired")
		}
		return nil, apperr.Unauthorized("invalid refresh token")
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, apperr.Unauthorized("invalid refresh token")
	}
	return claims, nil
}

// DecodeUnverified extracts the payload without checking the signature.
// Only for secondary lookups (reset-flow introspection), never authorization.
func (a Auth) DecodeUnverified(tokenString string) (*AccessClaims, error) {
	tokenString, err := stripBearer(tokenString)
	if err != nil {
		return nil, err
	}

	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, apperr.Unauthorized("malformed token")
	}
	return claims, nil
}

func (a Auth) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.New("unexpected signing method")
	}
	return []byte(a.Secret), nil
}

func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (dto.UserSnapshot, error) {
	u := ctx.Locals("user")
	snapshot, ok := u.(dto.UserSnapshot)
	if !ok {
		return dto.UserSnapshot{}, apperr.Unauthorized("missing auth user in context")
	}
	return snapshot, nil
}

func (a Auth) VerifyPassword(plain, hashed string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return apperr.Unauthorized("invalid email or password")
	}
	return nil
}

// stripBearer accepts both "Bearer <token>" and "<token>".
func stripBearer(tokenString string) (string, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return "", apperr.Unauthorized("missing token")
	}

	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return "", apperr.Unauthorized("invalid token format")
		}
		tokenString = strings.TrimSpace(parts[1])
	}
	return tokenString, nil
}

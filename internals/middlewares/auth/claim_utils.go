package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	userModel "housetrack_backend/internals/features/users/user/model"
	helper "housetrack_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errNoToken       = errors.New("unauthorized - No token provided")
	errBadFormat     = errors.New("unauthorized - Invalid token format")
	errEmptyToken    = errors.New("unauthorized - Empty token")
	errUserNotActive = errors.New("user is not active")
)

// extractBearerToken reads "Authorization: Bearer <token>", falling back to the access_token cookie.
func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := c.Cookies(helper.AccessTokenCookie); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errNoToken
	}

	// toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errBadFormat
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errEmptyToken
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	for _, key := range []string{"sub", "id"} {
		if s, ok := claims[key].(string); ok && strings.TrimSpace(s) != "" {
			return uuid.Parse(strings.TrimSpace(s))
		}
	}
	return uuid.Nil, fmt.Errorf("missing user id claim")
}

// loadActiveUser returns the current role of an active user. Role changes apply
// on the next request without re-issuing tokens.
func loadActiveUser(db *gorm.DB, userID uuid.UUID) (string, error) {
	var row struct {
		Role     string
		IsActive bool
	}
	err := db.Model(&userModel.UserModel{}).
		Select("role", "is_active").
		Where("id = ?", userID).
		Take(&row).Error
	if err != nil {
		return "", err
	}
	if !row.IsActive {
		return "", errUserNotActive
	}
	return row.Role, nil
}

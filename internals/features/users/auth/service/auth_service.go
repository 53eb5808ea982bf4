package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"housetrack_backend/internals/configs"
	authHelper "housetrack_backend/internals/features/users/auth/helper"
	authModel "housetrack_backend/internals/features/users/auth/model"
	authRepo "housetrack_backend/internals/features/users/auth/repository"
	userModel "housetrack_backend/internals/features/users/user/model"
	helper "housetrack_backend/internals/helpers"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

/* ==========================
   Const & Types
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	qryTimeoutShort = 800 * time.Millisecond
)

type registerInput struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type googleInput struct {
	IDToken string `json:"idToken"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

/* ==========================
   Small Helpers
========================== */

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET is not set")
	}
	return secret, nil
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func computeRefreshHash(token, secret string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return m.Sum(nil)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "duplicate key") || strings.Contains(low, "unique")
}

/* ==========================
   Claims & signing
========================== */

func buildAccessClaims(user userModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      user.Role,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": "refresh",
		"sub": userID.String(),
		"id":  userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

// SignAccessToken issues an HS256 access token for user.
func SignAccessToken(user userModel.UserModel, secret string, now time.Time) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, now)).SignedString([]byte(secret))
}

func buildUserResponse(user userModel.UserModel) fiber.Map {
	return fiber.Map{
		"id":       user.ID,
		"userName": user.UserName,
		"email":    user.Email,
		"role":     user.Role,
		"isActive": user.IsActive,
	}
}

/* ==========================
   REGISTER
========================== */

func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.UserName = strings.TrimSpace(input.UserName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := authHelper.ValidateRegisterInput(input.UserName, input.Email, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if taken, err := authRepo.IsUsernameTaken(db, input.UserName); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check user name")
	} else if taken {
		return helper.JsonError(c, fiber.StatusConflict, "User name already taken")
	}
	if taken, err := authRepo.IsEmailTaken(db, input.Email); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to check email")
	} else if taken {
		return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
	}

	passwordHash, err := authHelper.HashPassword(input.Password)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Password hashing failed")
	}

	user := userModel.UserModel{
		UserName: input.UserName,
		Email:    input.Email,
		Password: passwordHash,
		IsActive: true,
	}
	if err := authRepo.CreateUser(db, &user); err != nil {
		if isDuplicate(err) {
			return helper.JsonError(c, fiber.StatusConflict, "User name or email already registered")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	configs.Log.Info("👤 user registered", zap.String("user_id", user.ID.String()))
	return helper.JsonCreated(c, "Registration successful", buildUserResponse(user))
}

/* ==========================
   LOGIN
========================== */

func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	input.Identifier = strings.TrimSpace(input.Identifier)

	if err := authHelper.ValidateLoginInput(input.Identifier, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := authRepo.FindUserByEmailOrUsername(db, input.Identifier)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.Password); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid identifier or password")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account is disabled. Contact an admin.")
	}

	return issueTokens(c, db, *user)
}

/* ==========================
   LOGIN GOOGLE
========================== */

func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input googleInput
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if strings.TrimSpace(input.IDToken) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "idToken is required")
	}
	if configs.GoogleClientID == "" {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Google login is not configured")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{configs.GoogleClientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID Token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to decode ID Token")
	}

	user, err := resolveGoogleUser(db, claimSet.Sub, claimSet.Email, claimSet.Name)
	if err != nil {
		if isDuplicate(err) {
			return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to resolve Google user")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account is disabled. Contact an admin.")
	}

	return issueTokens(c, db, *user)
}

// resolveGoogleUser finds the user by Google id, links an account with the same
// email, or creates a new surveyor.
func resolveGoogleUser(db *gorm.DB, googleID, email, name string) (*userModel.UserModel, error) {
	if u, err := authRepo.FindUserByGoogleID(db, googleID); err == nil {
		return u, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if u, err := authRepo.FindUserByEmail(db, email); err == nil {
		if err := authRepo.LinkGoogleID(db, u.ID, googleID); err != nil {
			return nil, err
		}
		u.GoogleID = &googleID
		return u, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := authHelper.HashPassword(generateDummyPassword())
	if err != nil {
		return nil, err
	}
	u := userModel.UserModel{
		UserName: googleUserName(db, name, email),
		Email:    email,
		Password: hash,
		GoogleID: &googleID,
		IsActive: true,
	}
	if err := authRepo.CreateUser(db, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// googleUserName derives a free user name from the Google profile.
func googleUserName(db *gorm.DB, name, email string) string {
	base := strings.ToLower(strings.Join(strings.Fields(name), "_"))
	if base == "" {
		base = strings.SplitN(email, "@", 2)[0]
	}
	if len(base) > 40 {
		base = base[:40]
	}
	candidate := base
	for i := 0; i < 5; i++ {
		if taken, err := authRepo.IsUsernameTaken(db, candidate); err == nil && !taken {
			return candidate
		}
		candidate = base + "_" + uuid.NewString()[:6]
	}
	return candidate
}

func generateDummyPassword() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

/* ==========================
   ISSUE TOKENS
========================== */

func issueTokens(c *fiber.Ctx, db *gorm.DB, user userModel.UserModel) error {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := nowUTC()
	accessToken, err := SignAccessToken(user, jwtSecret, now)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign access token")
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sign refresh token")
	}

	if err := authRepo.CreateRefreshToken(db, &authModel.RefreshTokenModel{
		UserID:    user.ID,
		Token:     computeRefreshHash(refreshToken, refreshSecret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(c.Get(fiber.HeaderUserAgent)),
		IP:        strptr(c.IP()),
	}); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store refresh token")
	}

	setAuthCookies(c, accessToken, refreshToken, now)

	return helper.JsonOK(c, "Login successful", fiber.Map{
		"user":         buildUserResponse(user),
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string, now time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     helper.AccessTokenCookie,
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(accessTTLDefault),
	})
	c.Cookie(&fiber.Cookie{
		Name:     helper.RefreshTokenCookie,
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  now.Add(refreshTTLDefault),
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := nowUTC().Add(-time.Hour)
	for _, name := range []string{helper.AccessTokenCookie, helper.RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}

/* ==========================
   REFRESH TOKEN
========================== */

// refreshTokenFrom reads the refresh token from the cookie, falling back to the body.
func refreshTokenFrom(c *fiber.Ctx) string {
	if rt := helper.GetRefreshTokenFromCookie(c); rt != "" {
		return rt
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	_ = c.BodyParser(&body)
	return strings.TrimSpace(body.RefreshToken)
}

func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	raw := refreshTokenFrom(c)
	if raw == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token is missing")
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "unexpected signing method")
		}
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	hash := computeRefreshHash(raw, refreshSecret)
	if _, err := authRepo.FindActiveRefreshToken(db, hash, nowUTC()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token not recognized")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to read refresh token")
	}

	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}
	if !user.IsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Your account is disabled. Contact an admin.")
	}

	// rotate
	if err := authRepo.DeleteRefreshToken(db, hash); err != nil {
		configs.Log.Warn("refresh token rotation: delete old hash failed", zap.Error(err))
	}
	return issueTokens(c, db, *user)
}

/* ==========================
   LOGOUT
========================== */

func Logout(db *gorm.DB, blacklist BlacklistStore, c *fiber.Ctx) error {
	accessToken := helper.GetRawAccessToken(c)
	if accessToken != "" {
		ctx, cancel := context.WithTimeout(c.UserContext(), qryTimeoutShort)
		defer cancel()
		if err := blacklist.Add(ctx, accessToken, resolveBlacklistExpiry(accessToken)); err != nil {
			configs.Log.Warn("failed to blacklist token", zap.Error(err))
		}
	}

	if rt := helper.GetRefreshTokenFromCookie(c); rt != "" {
		if secret, err := getRefreshSecret(); err == nil {
			_ = authRepo.DeleteRefreshToken(db, computeRefreshHash(rt, secret))
		}
	}

	clearAuthCookies(c)
	return helper.JsonOK(c, "Logout successful", nil)
}

// resolveBlacklistExpiry keeps the entry until the token's own exp, or a day when unreadable.
func resolveBlacklistExpiry(accessToken string) time.Time {
	fallback := nowUTC().Add(accessTTLDefault)
	tok, _, err := new(jwt.Parser).ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return fallback
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return fallback
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return fallback
	}
	return time.Unix(int64(exp), 0).UTC()
}

/* ==========================
   ME & PASSWORD
========================== */

func Me(db *gorm.DB, c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonOK(c, "OK", buildUserResponse(*user))
}

func ChangePassword(db *gorm.DB, c *fiber.Ctx) error {
	var input changePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid input format")
	}
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}
	if err := authHelper.CheckPasswordHash(user.Password, input.CurrentPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Current password incorrect")
	}
	if err := authHelper.ValidatePassword(input.NewPassword); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	newHash, err := authHelper.HashPassword(input.NewPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash new password")
	}
	if err := authRepo.UpdateUserPassword(db, userID, newHash); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update password")
	}
	// sesi lain harus login ulang
	if err := authRepo.DeleteRefreshTokensByUser(db, userID); err != nil {
		configs.Log.Warn("failed to revoke refresh tokens", zap.Error(err))
	}

	return helper.JsonUpdated(c, "Password changed successfully", nil)
}

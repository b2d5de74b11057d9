package server

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"modam/internal/cache"
	"modam/internal/middleware"
	"modam/internal/models"
	"modam/internal/repository"
	"modam/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "modam-api"
	tokenAudience = "modam-client"

	// guestSubject marks a token with no backing account.
	guestSubject = "guest"
)

// Signup handles POST /api/auth/signup. The account row and profile row are
// created in one transaction, so a failed profile insert never leaves an
// orphaned credential.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Username string `json:"username"`
		Nickname string `json:"nickname"`
		Phone    string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" || req.Password == "" || req.Username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email, password, and username are required"))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	nickname := req.Nickname
	if nickname == "" {
		nickname = models.AnonymousNickname
	}
	if err := validation.ValidateNickname(nickname); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePhone(req.Phone); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	// The reserved admin username gets the admin flag at creation; every
	// later authorization decision reads the flag, not the name.
	isAdmin := req.Username == models.AdminUsername
	if isAdmin {
		nickname = models.AdminNickname
	}
	profile := &models.Profile{
		Username: req.Username,
		Nickname: nickname,
		Role:     models.RoleUser,
		Phone:    req.Phone,
		IsAdmin:  isAdmin,
	}

	if err := s.userRepo.CreateWithProfile(c.Context(), user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicateAccount) {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("An account with that email or username already exists"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"user":    user,
		"profile": profile,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	profile, err := s.userRepo.GetProfile(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.JSON(fiber.Map{
		"token":   token,
		"user":    user,
		"profile": profile,
	})
}

// GuestSession handles POST /api/auth/guest. Guests browse and diagnose
// without an account; the token only identifies the session as a guest.
func (s *Server) GuestSession(c *fiber.Ctx) error {
	token, err := s.signClaims(jwt.MapClaims{
		"sub":   guestSubject,
		"guest": true,
		"iss":   tokenIssuer,
		"aud":   tokenAudience,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
		"jti":   s.generateJTI(),
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token":    token,
		"guest":    true,
		"nickname": models.AnonymousNickname,
	})
}

// RecoverSession handles GET /api/auth/session. Recovery is bounded: the
// whole check runs under a timeout and a missing profile is retried a few
// times before the session is returned with a null profile rather than an
// error.
func (s *Server) RecoverSession(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), s.config.SessionTimeout())
	defer cancel()

	authHeader := c.Get("Authorization")
	tokenString := bearerToken(authHeader)
	if tokenString == "" {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	claims, err := s.parseToken(ctx, tokenString)
	if err != nil {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	sub, _ := claims["sub"].(string)
	if sub == guestSubject {
		return c.JSON(fiber.Map{
			"authenticated": true,
			"guest":         true,
			"profile":       nil,
		})
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	user, err := s.userRepo.GetByID(ctx, uint(userID))
	if err != nil || user == nil {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	profile := s.fetchProfileWithRetry(ctx, uint(userID))

	return c.JSON(fiber.Map{
		"authenticated": true,
		"guest":         false,
		"user":          user,
		"profile":       profile,
	})
}

// fetchProfileWithRetry attempts the profile read a bounded number of times.
// A nil return is a legal session state for the caller, never a failure.
func (s *Server) fetchProfileWithRetry(ctx context.Context, userID uint) *models.Profile {
	attempts := s.config.ProfileFetchAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(s.config.ProfileFetchDelay()):
			}
		}

		profile, err := s.userRepo.GetProfile(ctx, userID)
		if err == nil && profile != nil {
			return profile
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return nil
}

// Signout handles POST /api/auth/signout. Signout always succeeds: the
// token revocation and session cleanup are best-effort, and an
// unauthenticated caller still gets a 200.
func (s *Server) Signout(c *fiber.Ctx) error {
	tokenString := bearerToken(c.Get("Authorization"))
	if tokenString == "" || s.redis == nil {
		return c.JSON(fiber.Map{"message": "Signed out"})
	}

	claims, err := s.parseToken(c.Context(), tokenString)
	if err != nil {
		return c.JSON(fiber.Map{"message": "Signed out"})
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		ttl := 24 * time.Hour
		if exp, ok := claims["exp"].(float64); ok {
			if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
				ttl = remaining
			}
		}
		if err := s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err(); err != nil {
			middleware.Logger.Warn("signout token revocation failed", "error", err)
		}
	}

	if sub, ok := claims["sub"].(string); ok {
		if userID, err := strconv.ParseUint(sub, 10, 32); err == nil {
			cache.Invalidate(c.Context(), cache.SessionKey(uint(userID)))
		}
	}

	return c.JSON(fiber.Map{"message": "Signed out"})
}

// generateToken creates a JWT for the given user ID.
func (s *Server) generateToken(userID uint) (string, error) {
	now := time.Now()
	return s.signClaims(jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(time.Hour * 24 * 7).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": s.generateJTI(),
	})
}

func (s *Server) signClaims(claims jwt.MapClaims) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID so individual tokens can be revoked.
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

func bearerToken(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && authHeader[:len(prefix)] == prefix {
		return authHeader[len(prefix):]
	}
	return ""
}

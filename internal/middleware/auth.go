package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"bandmate/internal/cache"
	"bandmate/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer and TokenAudience are stamped into every issued token and
// checked on every request.
const (
	TokenIssuer   = "bandmate-api"
	TokenAudience = "bandmate-client"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// ParseToken validates a signed token string and returns the profile id from
// its subject claim.
func ParseToken(ctx context.Context, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	if issuer, issOk := claims["iss"].(string); !issOk || issuer != TokenIssuer {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token issuer")
	}
	if audience, audOk := claims["aud"].(string); !audOk || audience != TokenAudience {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token audience")
	}

	// The profile id travels in the "sub" claim (RFC 7519).
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	// Revoked tokens carry a blacklisted jti. Without Redis there is no
	// blacklist to consult and logout degrades to client-side expiry.
	if jti, exists := claims["jti"].(string); exists && jti != "" {
		if rdb := cache.GetClient(); rdb != nil {
			if revoked, err := rdb.Exists(ctx, "blacklist:"+jti).Result(); err == nil && revoked > 0 {
				return 0, fiber.NewError(fiber.StatusUnauthorized, "Token has been revoked")
			}
		}
	}

	return uint(userID), nil
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// The authenticated profile id ends up in c.Locals("userID").
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	userID, err := ParseToken(c.UserContext(), parts[1])
	if err != nil {
		message := "Invalid or expired token"
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			message = fiberErr.Message
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": message,
		})
	}

	c.Locals("userID", userID)
	// Mirror into the request context so the logger picks it up.
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
	return c.Next()
}

// OptionalUserID extracts the profile id from a bearer token when one is
// present, without requiring authentication. Public endpoints use it to
// personalize responses for signed-in viewers.
func OptionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}
	userID, err := ParseToken(c.UserContext(), parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}

package middlewares

import (
	"strings"

	t_token "school_chat_service/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// QueryToken token in query name (websocket clients pass it here)
	QueryToken = "auth"

	// CookieToken token in cookie name
	CookieToken = "auth_token"

	// HeaderToken Authorization header (REST clients)
	HeaderToken = "Authorization"

	// TokenUserID subject id from token, set c.locals name
	TokenUserID = "UserID"
	// TokenRole role from token, set c.locals name
	TokenRole = "role"
	// TokenRaw the raw credential, the websocket session re-resolves it
	TokenRaw = "RawToken"
)

// JWTMiddleware validates the bearer credential from query, cookie or header
func JWTMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Query(QueryToken)

		if tokenStr == "" {
			tokenStr = c.Cookies(CookieToken)
		}

		if tokenStr == "" {
			tokenStr = strings.TrimPrefix(c.Get(HeaderToken), "Bearer ")
		}

		if tokenStr == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing token",
			})
		}

		token, err := jwt.ParseWithClaims(tokenStr, &t_token.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Unexpected signing method")
			}
			return t_token.JWTSecret, nil
		})

		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		if claims, ok := token.Claims.(*t_token.Claims); ok && token.Valid {
			c.Locals(TokenUserID, claims.UserID)
			c.Locals(TokenRole, claims.Role)
			c.Locals(TokenRaw, tokenStr)
		} else {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		return c.Next()
	}
}

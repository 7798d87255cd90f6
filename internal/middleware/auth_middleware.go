package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketSearch/pkg/logger"
	"marketSearch/pkg/utils"

	jsonres "marketSearch/pkg/response"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// user_id and role in the echo context.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing authorization header", nil,
				))
			}

			userID, role, errRes := parseBearer(authHeader)
			if errRes != nil {
				return c.JSON(errRes.status, errRes.body)
			}

			c.Set("user_id", userID)
			c.Set("role", role)

			return next(c)
		}
	}
}

// OptionalAuthMiddleware resolves the caller when a token is present but
// lets anonymous requests through with user_id 0. Interaction recording and
// search serve both identified and anonymous traffic.
func OptionalAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				c.Set("user_id", uint(0))
				return next(c)
			}

			userID, role, errRes := parseBearer(authHeader)
			if errRes != nil {
				return c.JSON(errRes.status, errRes.body)
			}

			c.Set("user_id", userID)
			c.Set("role", role)

			return next(c)
		}
	}
}

// AdminMiddleware gates the admin surface. Runs after AuthMiddleware.
func AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != "admin" {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Admin access required", nil,
				))
			}
			return next(c)
		}
	}
}

type authError struct {
	status int
	body   any
}

func parseBearer(authHeader string) (uint, string, *authError) {
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return 0, "", &authError{http.StatusUnauthorized, jsonres.Error(
			"UNAUTHORIZED", "Invalid authorization format", nil,
		)}
	}

	claims, err := utils.ParseJWT(tokenParts[1])
	if err != nil {
		return 0, "", &authError{http.StatusUnauthorized, jsonres.Error(
			"UNAUTHORIZED", "Invalid token", nil,
		)}
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || time.Now().After(expAt.Time) {
		return 0, "", &authError{http.StatusForbidden, jsonres.Error(
			"FORBIDDEN", "Status Forbidden", nil,
		)}
	}

	userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		logger.Error("invalid user id in token", "error", err)
		return 0, "", &authError{http.StatusForbidden, jsonres.Error(
			"FORBIDDEN", "Invalid user ID in token", nil,
		)}
	}

	return uint(userIDUint), claims.Role, nil
}

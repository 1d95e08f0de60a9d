package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/steamlab-platform/lab-service/internal/auth"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

// AuthMiddleware authenticates requests with the service's own JWT tokens.
type AuthMiddleware struct {
	tokens   *auth.TokenManager
	userRepo repositories.UserRepository
}

func NewAuthMiddleware(tokens *auth.TokenManager, userRepo repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, userRepo: userRepo}
}

// Authenticate validates the bearer token and loads the user behind it into
// the request context.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := am.tokens.Parse(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		// The subject is the mobile number; loading the user catches
		// accounts deleted after the token was issued and picks up role
		// changes immediately.
		user, err := am.userRepo.GetByMobile(c.Request.Context(), nil, claims.Subject)
		if err != nil || user.ID != claims.UserID {
			abortUnauthorized(c, "unknown user")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)
		c.Set("user", user)

		c.Next()
	}
}

// RequireRole allows only the listed roles through. Roles are matched
// exactly; routes that admins may use list them explicitly.
func (am *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("user_role")
		if !exists {
			abortForbidden(c, "user role not found in context")
			return
		}

		role, ok := v.(models.UserRole)
		if !ok {
			abortForbidden(c, "invalid user role in context")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		abortForbidden(c, "insufficient permissions")
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Message: "Unauthorized",
		Details: msg,
	})
	c.Abort()
}

func abortForbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, models.ErrorResponse{
		Message: "Forbidden",
		Details: msg,
	})
	c.Abort()
}

package api

import (
	"net/http"
	"strings"

	"github.com/dkurenkov/eventease/internal/domain"
	"github.com/dkurenkov/eventease/internal/repository"
	"github.com/dkurenkov/eventease/internal/service/auth"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// RequireAuth verifies the bearer token and loads the user. All failure
// modes report the same unauthorized message to the client.
func RequireAuth(authSvc auth.AuthUseCase, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondUnauthorized(c, "not authorized to access this route")
			return
		}

		claims, err := authSvc.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondUnauthorized(c, "not authorized to access this route")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			respondUnauthorized(c, "not authorized to access this route")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "you do not have permission to perform this action",
			})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

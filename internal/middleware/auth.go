package middleware

import (
	"collaborative-annotation-server/internal/auth"
	"collaborative-annotation-server/internal/domain"
	"collaborative-annotation-server/internal/errors"
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id uint64) (*domain.User, error)
}

type RoleProvider interface {
	GetUserRole(ctx context.Context, projectID, userID uint64) (string, error)
}

type Auth struct {
	UserService UserProvider
	RoleService RoleProvider
}

// AuthMiddleWare resolves the requesting user once per request and puts the
// id into the gin context; every core call receives it as an explicit
// parameter from there.
func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, err := auth.UserIDFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		user, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil || !user.IsActive {
			ctx.Error(errors.Unauthorized("Invalid User ID!", err))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", userID)
		ctx.Set("is_superuser", user.IsSuperuser)
		ctx.Set("jwt_token", token)
		ctx.Next()
	}
}

// RequireProjectRole authorizes the requesting user against the project in
// the route. Superusers pass any check. The resolved role is stored in the
// context so handlers never re-derive permissions.
func (m *Auth) RequireProjectRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(ctx *gin.Context) {
		projectID, err := strconv.ParseUint(ctx.Param("project_id"), 10, 64)
		if err != nil {
			ctx.Error(errors.BadRequest("Invalid project id", err))
			ctx.Abort()
			return
		}

		userID := ctx.GetUint64("user_id")
		if ctx.GetBool("is_superuser") {
			ctx.Set("project_role", domain.RoleProjectAdmin)
			ctx.Next()
			return
		}

		role, err := m.RoleService.GetUserRole(ctx.Request.Context(), projectID, userID)
		if err != nil {
			ctx.Error(errors.Forbidden("You're not a member of this project", err))
			ctx.Abort()
			return
		}

		if !allowed[role] {
			ctx.Error(errors.Forbidden("You don't have permission for this action", nil))
			ctx.Abort()
			return
		}

		ctx.Set("project_role", role)
		ctx.Next()
	}
}

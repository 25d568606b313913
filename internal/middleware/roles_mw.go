package middleware

import (
	"context"
	"net/http"

	"member_directory/internal/model"

	"github.com/gin-gonic/gin"
)

const profileRequiredMessage = "Profile must be completed before accessing this resource."

// ProfileChecker reports whether an account has completed its profile
type ProfileChecker interface {
	Exists(ctx context.Context, accountID string) (bool, error)
}

// RequireRole allows callers whose role is at least as privileged as min
func RequireRole(min model.Role) Gate {
	return func(c *gin.Context) Verdict {
		id, ok := IdentityFrom(c)
		if !ok {
			return unauthenticated()
		}
		if !id.Role.AtLeast(min) {
			return Reject(http.StatusForbidden, "You do not have permission to access this resource", CodeInsufficientRole)
		}
		return Allow()
	}
}

// RequireProfile allows callers that have completed their profile
func RequireProfile(checker ProfileChecker) Gate {
	return func(c *gin.Context) Verdict {
		id, ok := IdentityFrom(c)
		if !ok {
			return unauthenticated()
		}
		exists, err := checker.Exists(c.Request.Context(), id.AccountID)
		if err != nil {
			_ = c.Error(err)
			return Reject(http.StatusInternalServerError, "Failed to check profile", CodeInternal)
		}
		if !exists {
			return Reject(http.StatusForbidden, profileRequiredMessage, CodeProfileRequired)
		}
		return Allow()
	}
}

// AdminMiddleware admits Admin and SuperAdmin callers that have completed
// their profile. It must run after JWTAuthMiddleware.
func AdminMiddleware(profiles ProfileChecker) gin.HandlerFunc {
	return Guard(RequireRole(model.RoleAdmin), RequireProfile(profiles))
}

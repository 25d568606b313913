package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Rejection codes returned alongside the error message
const (
	CodeUnauthenticated  = "unauthenticated"
	CodeInsufficientRole = "insufficient_role"
	CodeProfileRequired  = "profile_required"
	CodeInternal         = "internal_error"
)

// Verdict is the outcome of a Gate. The zero value allows the request.
type Verdict struct {
	Status int
	Reason string
	Code   string
}

func Allow() Verdict { return Verdict{} }

func Reject(status int, reason, code string) Verdict {
	return Verdict{Status: status, Reason: reason, Code: code}
}

func (v Verdict) Allowed() bool { return v.Status == 0 }

// Gate inspects the request and decides. Gates never write the response.
type Gate func(c *gin.Context) Verdict

// Guard runs gates in order and aborts on the first rejection
func Guard(gates ...Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, gate := range gates {
			if v := gate(c); !v.Allowed() {
				c.AbortWithStatusJSON(v.Status, gin.H{"error": v.Reason, "code": v.Code})
				return
			}
		}
		c.Next()
	}
}

func unauthenticated() Verdict {
	return Reject(http.StatusUnauthorized, "Authentication required", CodeUnauthenticated)
}

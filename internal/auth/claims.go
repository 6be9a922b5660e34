package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	claimsContextKey = "auth_claims"
	tokenContextKey  = "auth_token"
)

// Claims is the decoded identity of the caller: who they are and what role
// they act under. Token signature and expiry were already checked by the
// middleware that produced it.
type Claims struct {
	UserID uuid.UUID
	Role   Role
}

// ClaimsFrom returns the caller claims stored by Middleware.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

// TokenFrom returns the raw bearer token, kept so it can be forwarded to the
// auth service when validating manager references.
func TokenFrom(c *gin.Context) string {
	return c.GetString(tokenContextKey)
}

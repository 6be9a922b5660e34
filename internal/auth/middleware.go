package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	httpapi "github.com/defectflow/projects-service/internal/api/http"
)

// Middleware validates the HS256 bearer token issued by the auth service and
// stores the decoded Claims (and the raw token) in the request context.
// Tokens carry the user id in "sub" and the platform role in "role".
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			unauthorized(c, "missing authorization token")
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				unauthorized(c, "token has expired")
				return
			}
			unauthorized(c, "invalid token")
			return
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid token")
			return
		}

		sub, err := mapClaims.GetSubject()
		if err != nil || sub == "" {
			unauthorized(c, "token missing subject")
			return
		}
		userID, err := uuid.Parse(sub)
		if err != nil {
			unauthorized(c, "token subject is not a valid user id")
			return
		}

		roleStr, _ := mapClaims["role"].(string)
		role := Role(roleStr)
		if !role.Valid() {
			unauthorized(c, "token carries an unknown role")
			return
		}

		c.Set(claimsContextKey, Claims{UserID: userID, Role: role})
		c.Set(tokenContextKey, raw)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	httpapi.Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// extractToken pulls the bearer token from the Authorization header.
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[len("Bearer "):])
	}
	return ""
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"

	"taskmanager/model"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userId"

type AccessTokenParser interface {
	ParseAccessToken(token string) (*model.AccessClaims, error)
}

// IDTokenVerifier is satisfied by *auth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AccessTokenMiddleware accepts our own HS256 access tokens and, when
// firebase is non-nil, Firebase ID tokens as a fallback.
func AccessTokenMiddleware(tokens AccessTokenParser, firebase IDTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Request.Header.Get("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		bearer := strings.SplitN(header, " ", 2)
		if len(bearer) != 2 || bearer[0] != "Bearer" || bearer[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}
		tokenString := bearer[1]

		claims, err := tokens.ParseAccessToken(tokenString)
		if err == nil {
			c.Set("claims", claims)
			c.Set(UserIDKey, claims.UserID)
			c.Next()
			return
		}

		if firebase != nil {
			idToken, ferr := firebase.VerifyIDToken(c.Request.Context(), tokenString)
			if ferr == nil && idToken.UID != "" {
				c.Set(UserIDKey, idToken.UID)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	}
}

// UserID returns the id set by AccessTokenMiddleware, or "" when absent.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

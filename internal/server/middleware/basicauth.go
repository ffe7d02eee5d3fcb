// file: internal/server/middleware/basicauth.go
// version: 2.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-1e2f3a4b5c6d

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

const basicAuthRealm = `Basic realm="Asset Store"`

// BasicAuth guards admin routes with HTTP Basic Authentication. The password
// is checked against a bcrypt hash. An empty username disables the check.
func BasicAuth(username, passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if username == "" {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			unauthorized(c)
			return
		}

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		// Always run bcrypt so a wrong username costs the same as a wrong password.
		passErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(pass))
		if !userMatch || passErr != nil {
			unauthorized(c)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", basicAuthRealm)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":  "authentication required",
		"code":   "UNAUTHORIZED",
		"status": http.StatusUnauthorized,
	})
}

// HashPassword returns a bcrypt hash suitable for BasicAuth.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

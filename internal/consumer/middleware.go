package consumer

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/chucky-1/budget-jobs/internal/model"
)

const callerKey = "callerId"

var errEmptySecret = errors.New("jwt secret must not be empty")

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
		Status:  "error",
		Code:    "UNAUTHORIZED",
		Message: message,
	})
}

// AuthMiddleware accepts HS256 bearer tokens and puts their subject into the gin context
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			unauthorized(c, "Authentication is not configured")
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authentication required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid token format")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid token")
			return
		}
		if claims.Subject == "" {
			unauthorized(c, "Invalid user ID in token")
			return
		}

		c.Set(callerKey, claims.Subject)
		c.Next()
	}
}

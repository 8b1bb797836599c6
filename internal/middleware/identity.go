package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Identity resolves the acting user for every request before the core is
// invoked. A valid Bearer token supplies the user id; anything else — no
// header, a malformed header, an expired token — falls back to the
// well-known demo user, matching the feed's anonymous-friendly behavior.
// Authorization policy beyond that lives outside this service.
func Identity(secret string, demoUserID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := demoUserID

		if id, ok := userIDFromHeader(c.GetHeader("Authorization"), secret); ok {
			userID = id
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

func userIDFromHeader(header, secret string) (int, bool) {
	if header == "" || secret == "" {
		return 0, false
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}

	// JSON numbers arrive as float64.
	raw, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return int(raw), true
}

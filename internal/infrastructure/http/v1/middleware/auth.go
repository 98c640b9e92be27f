package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Stiliyan26/Ticket-Master/internal/core/appctx"
	"github.com/Stiliyan26/Ticket-Master/internal/core/apperror"
)

// TokenValidator validates a bearer token and resolves the caller.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// HMACValidator validates HS256 tokens and reads the user id from the
// subject claim.
type HMACValidator struct {
	secret []byte
}

// NewHMACValidator creates a validator for the given signing secret.
func NewHMACValidator(secret string) *HMACValidator {
	return &HMACValidator{secret: []byte(secret)}
}

var _ TokenValidator = (*HMACValidator)(nil)

// ValidateToken implements TokenValidator.
func (v *HMACValidator) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return nil, err
	}
	if subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &appctx.UserContext{UserID: subject}, nil
}

// Auth middleware validates bearer tokens and populates user context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		// Check Bearer prefix
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid token"))
			c.Abort()
			return
		}

		// Add user to context
		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("user_id", user.UserID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}

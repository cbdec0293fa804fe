package api

import (
	"errors"
	"fmt"
	"strings"
	"unimatch/research-app/internal/apperror"
	"unimatch/research-app/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Constants for context keys
const (
	ContextUserIDKey   = "userID"
	ContextUserRoleKey = "userRole"
)

// jwtClaims defines the structure we expect in the JWT payload.
// Mirroring the structure used in authService.generateJWT
type jwtClaims struct {
	UserID string      `json:"uid"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication. Expired
// tokens are surfaced as a distinct kind so clients can prompt re-login
// instead of treating the failure as a hard denial.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, apperror.New(apperror.KindAuth, "Authorization header is missing"))
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			respondError(c, apperror.New(apperror.KindAuth, "Authorization header format must be Bearer {token}"))
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				respondError(c, apperror.New(apperror.KindAuthExpired, "token has expired"))
			} else {
				respondError(c, apperror.New(apperror.KindAuth, "invalid token"))
			}
			return
		}

		if !token.Valid || claims.UserID == "" || claims.Role == "" {
			respondError(c, apperror.New(apperror.KindAuth, "invalid token or missing claims"))
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUserIDKey, claims.UserID) // UserID as string (Hex representation)
		c.Set(ContextUserRoleKey, claims.Role)

		c.Next()
	}
}

// RoleMiddleware creates middleware to check if user has the required role(s).
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(ContextUserRoleKey)
		if !exists {
			// Should not happen if AuthMiddleware ran correctly
			respondError(c, apperror.Infrastructure("user role not found in context", nil))
			return
		}

		userRole, ok := roleRaw.(domain.Role)
		if !ok {
			respondError(c, apperror.Infrastructure("invalid user role type in context", nil))
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				allowed = true
				break
			}
		}

		if !allowed {
			respondError(c, apperror.New(apperror.KindAuth, fmt.Sprintf("access denied: role '%s' does not have permission", userRole)))
			return
		}

		c.Next()
	}
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// abortWithError returns a plain JSON error response and aborts the request.
// Used for request-shape problems before any service call.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

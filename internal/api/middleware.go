package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"peakform/fitness-content/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextOwnerIDKey   = "ownerID"
	ContextOwnerRoleKey = "ownerRole"
)

// jwtClaims mirrors the payload written by authService.generateJWT.
type jwtClaims struct {
	OwnerID string      `json:"uid"`
	Role    domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
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
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, fmt.Sprintf("Invalid token: %v", err))
			}
			return
		}

		if !token.Valid || claims.OwnerID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextOwnerIDKey, claims.OwnerID)
		c.Set(ContextOwnerRoleKey, claims.Role)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RoleMiddleware creates middleware to check if the owner has one of the
// required roles. Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleRaw, exists := c.Get(ContextOwnerRoleKey)
		if !exists {
			abortWithError(c, http.StatusInternalServerError, "Owner role not found in context")
			return
		}

		ownerRole, ok := roleRaw.(domain.Role)
		if !ok {
			abortWithError(c, http.StatusInternalServerError, "Invalid owner role type in context")
			return
		}

		allowed := false
		for _, allowedRole := range allowedRoles {
			if ownerRole == allowedRole {
				allowed = true
				break
			}
		}
		if !allowed {
			abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", ownerRole))
			return
		}
		c.Next()
	}
}

// getOwnerFromContext rebuilds the acting owner namespace from the claims
// AuthMiddleware stored in the context.
func getOwnerFromContext(c *gin.Context) (domain.OwnerRef, error) {
	idRaw, exists := c.Get(ContextOwnerIDKey)
	if !exists {
		return domain.OwnerRef{}, errors.New("owner ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok {
		return domain.OwnerRef{}, errors.New("invalid owner ID type in context")
	}
	ownerID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return domain.OwnerRef{}, fmt.Errorf("invalid owner ID in token: %w", err)
	}

	roleRaw, exists := c.Get(ContextOwnerRoleKey)
	if !exists {
		return domain.OwnerRef{}, errors.New("owner role not found in context")
	}
	role, ok := roleRaw.(domain.Role)
	if !ok {
		return domain.OwnerRef{}, errors.New("invalid owner role type in context")
	}

	return domain.OwnerRef{OwnerID: ownerID, Role: role}, nil
}

// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetUserID gets the authenticated user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// GetEmail gets the authenticated email from context
func GetEmail(c *gin.Context) (string, bool) {
	v, exists := c.Get("email")
	if !exists {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}

// GetJTI gets the current token's jti from context
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}

// MustGetUserID gets the user ID from context or panics
func MustGetUserID(c *gin.Context) string {
	id, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return id
}

// MustGetJTI gets the jti from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("user_id")
	return exists
}

package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const operatorIDKey = contextKey("operatorID")

// defaultOperatorID is used when no operator identity is forwarded, e.g. for
// scheduled jobs.
const defaultOperatorID = "system"

// OperatorMiddleware reads the operator identity the admin panel forwards in
// the X-Operator-ID header and stores it in the request context for audit
// fields. Authentication itself happens upstream.
func OperatorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.GetHeader("X-Operator-ID")
		if operatorID == "" {
			operatorID = defaultOperatorID
		}
		ctx := context.WithValue(c.Request.Context(), operatorIDKey, operatorID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// GetOperatorIDFromContext retrieves the operator ID from the Gin context.
func GetOperatorIDFromContext(c *gin.Context) string {
	operatorID, ok := c.Request.Context().Value(operatorIDKey).(string)
	if !ok || operatorID == "" {
		return defaultOperatorID
	}
	return operatorID
}

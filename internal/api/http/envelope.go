package http

import "github.com/gin-gonic/gin"

// ErrorDetail is one entry of a validation detail list.
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// OK writes the uniform success envelope.
func OK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// Fail writes the uniform failure envelope and stops further handlers.
func Fail(c *gin.Context, status int, code, message string, details []ErrorDetail) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   errorBody{Code: code, Message: message, Details: details},
	})
}

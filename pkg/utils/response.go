package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every failed response.
type ErrorBody struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// MessageBody is returned by operations that have nothing to report beyond a message.
type MessageBody struct {
	Message string `json:"message"`
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Message: message})
}

func ValidationErrorResponse(c *gin.Context, status int, message string, fields map[string]string) {
	c.JSON(status, ErrorBody{Message: message, Errors: fields})
}

func MessageResponse(c *gin.Context, status int, message string) {
	c.JSON(status, MessageBody{Message: message})
}

func SuccessResponse(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

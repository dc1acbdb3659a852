package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON body of a successful call.
type Response map[string]interface{}

// Success writes a 200 JSON response.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, data)
}

// Error writes {"error": msg} with the given status.
func Error(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"error": msg,
	})
}

package utils

import (
	"crowd-bidding/internal/biddingerrors"

	"github.com/gin-gonic/gin"
)

// JSONResponse sends a structured JSON response
func JSONResponse(c *gin.Context, status int, data any, message string) {
	c.JSON(status, gin.H{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// JSONError sends a structured error response with the error's reason code
func JSONError(c *gin.Context, status int, err error, message string) {
	JSONErrorWithData(c, status, err, message, nil)
}

// JSONErrorWithData sends an error response that also carries data the client
// can act on without another request.
func JSONErrorWithData(c *gin.Context, status int, err error, message string, data any) {
	body := gin.H{
		"status":  status,
		"message": message,
		"error":   err.Error(),
		"code":    biddingerrors.Code(err),
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

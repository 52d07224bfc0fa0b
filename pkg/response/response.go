package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The wire contract keeps success bodies bare (the payload itself) and wraps
// failures in a single-field error object.

// Error is the failure envelope.
type Error struct {
	Error string `json:"error"`
}

// OK sends a 200 JSON response with the payload as the body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// BadRequest sends 400 with an error message.
func BadRequest(c *gin.Context, err string) {
	c.JSON(http.StatusBadRequest, Error{Error: err})
}

// NotFound sends 404 with an error message.
func NotFound(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, Error{Error: err})
}

// Internal sends 500 with an error message.
func Internal(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, Error{Error: err})
}

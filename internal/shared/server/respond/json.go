package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// NoContent ends a successful request that has nothing to return.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

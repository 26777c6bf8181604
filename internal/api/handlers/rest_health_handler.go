package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness of the public API.
func HealthHandler(appName string) gin.HandlerFunc {
	message := appName + " API is running"
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": message})
	}
}

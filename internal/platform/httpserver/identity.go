package httpserver

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DeviceHeader = "X-Device-ID"
	ownerKey     = "dawn.owner"
)

// Identity resolves the caller's owner id from the device header, falling
// back to the configured owner.
func Identity(fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(DeviceHeader))
		if owner == "" {
			owner = fallback
		}
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// Owner returns the id set by Identity.
func Owner(c *gin.Context) string {
	return c.GetString(ownerKey)
}

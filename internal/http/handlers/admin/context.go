package admin

import (
	handlershared "github.com/sabor-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "admin_id")
}

func currentAdminID(c *gin.Context) uint {
	if value, exists := c.Get("admin_id"); exists {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

func currentUsername(c *gin.Context) string {
	if value, exists := c.Get("admin_username"); exists {
		if name, ok := value.(string); ok {
			return name
		}
	}
	return ""
}

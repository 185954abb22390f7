package orglimit

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/org-limit", handler.GetAvailableCount)
}

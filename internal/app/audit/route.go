package audit

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/audit-logs", handler.ListByOrg)
	rg.GET("/audit-logs/:entityId", handler.ListByEntity)
}

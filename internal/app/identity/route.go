package identity

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/session", handler.CreateSession)
	rg.PUT("/session/org", handler.SwitchOrg)
}

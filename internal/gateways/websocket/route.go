package websocket

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler *ServeWSHandler) {
	rg.GET("/ws", handler.ServeWS)
}

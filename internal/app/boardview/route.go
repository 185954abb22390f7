package boardview

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/boards/:boardId/full", handler.GetFullBoard)
}

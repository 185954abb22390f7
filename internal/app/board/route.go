package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/boards", handler.GetBoards)
	rg.GET("/boards/:boardId", handler.GetBoard)
	rg.POST("/boards", handler.CreateBoard)
	rg.PATCH("/boards/:boardId", handler.UpdateBoard)
	rg.DELETE("/boards/:boardId", handler.DeleteBoard)
}

package card

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/cards/:cardId", handler.GetCard)
	rg.POST("/cards", handler.CreateCard)
	rg.PATCH("/cards/:cardId", handler.UpdateCard)
	rg.POST("/cards/:cardId/clone", handler.CloneCard)
	rg.PUT("/cards/:cardId/move", handler.MoveCard)
	rg.DELETE("/cards/:cardId", handler.DeleteCard)
}

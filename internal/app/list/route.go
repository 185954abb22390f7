package list

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.POST("/lists", handler.CreateList)
	rg.PATCH("/lists/:listId", handler.UpdateList)
	rg.POST("/lists/:listId/clone", handler.CloneList)
	rg.PUT("/lists/:listId/move", handler.MoveList)
	rg.DELETE("/lists/:listId", handler.DeleteList)
}

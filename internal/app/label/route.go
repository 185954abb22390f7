package label

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg gin.IRoutes, handler Handler) {
	rg.GET("/labels", handler.ListLabels)
	rg.POST("/labels", handler.CreateLabel)
	rg.PATCH("/labels/:labelId", handler.UpdateLabel)
	rg.DELETE("/labels/:labelId", handler.DeleteLabel)
	rg.POST("/card-labels", handler.AssignLabel)
	rg.DELETE("/card-labels", handler.UnassignLabel)
}

package list

import (
	"net/http"

	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	CreateList(c *gin.Context)
	UpdateList(c *gin.Context)
	CloneList(c *gin.Context)
	MoveList(c *gin.Context)
	DeleteList(c *gin.Context)
}

type handler struct {
	service     Service
	identitySvc identity.Service
}

func NewHandler(service Service, identitySvc identity.Service) Handler {
	return &handler{service: service, identitySvc: identitySvc}
}

func (h *handler) auth(c *gin.Context) (*identity.Auth, bool) {
	auth, err := h.identitySvc.GetAuth(identity.SessionKey(c))
	if err != nil {
		result.Error(c, result.ErrUnauthorized)
		return nil, false
	}
	return auth, true
}

type createListRequest struct {
	BoardID string `json:"board_id" binding:"required"`
	Title   string `json:"title"`
}

type updateListRequest struct {
	Title string `json:"title"`
}

type moveListRequest struct {
	Index *int `json:"index" binding:"required"`
}

// @Summary Create a list at the end of a board
// @Tags List
// @Accept json
// @Produce json
// @Param request body createListRequest true "Board and title"
// @Success 200 {object} result.Response
// @Failure 400 {object} result.Response
// @Router /api/lists [post]
func (h *handler) CreateList(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	list, err := h.service.CreateList(c.Request.Context(), auth, req.BoardID, req.Title)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, list)
}

// @Summary Rename a list
// @Tags List
// @Accept json
// @Produce json
// @Param listId path string true "List id"
// @Param request body updateListRequest true "New title"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/lists/{listId} [patch]
func (h *handler) UpdateList(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req updateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	list, err := h.service.UpdateList(c.Request.Context(), auth, c.Param("listId"), req.Title)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, list)
}

// @Summary Clone a list with its cards and their labels
// @Tags List
// @Produce json
// @Param listId path string true "List id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/lists/{listId}/clone [post]
func (h *handler) CloneList(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	list, err := h.service.CloneList(c.Request.Context(), auth, c.Param("listId"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, list)
}

// @Summary Move a list to another position on its board
// @Tags List
// @Accept json
// @Produce json
// @Param listId path string true "List id"
// @Param request body moveListRequest true "Target index"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/lists/{listId}/move [put]
func (h *handler) MoveList(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req moveListRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	list, err := h.service.MoveList(c.Request.Context(), auth, c.Param("listId"), *req.Index)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, list)
}

// @Summary Delete a list and its cards
// @Tags List
// @Produce json
// @Param listId path string true "List id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/lists/{listId} [delete]
func (h *handler) DeleteList(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	list, err := h.service.DeleteList(c.Request.Context(), auth, c.Param("listId"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, list)
}

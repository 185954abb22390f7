package board

import (
	"net/http"

	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetBoards(c *gin.Context)
	GetBoard(c *gin.Context)
	CreateBoard(c *gin.Context)
	UpdateBoard(c *gin.Context)
	DeleteBoard(c *gin.Context)
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

type createBoardRequest struct {
	Title string `json:"title"`
	Image string `json:"image"`
}

type updateBoardRequest struct {
	Title *string `json:"title"`
	Image *string `json:"image"`
}

// @Summary List boards for the active organization
// @Tags Board
// @Produce json
// @Success 200 {object} result.Response
// @Failure 401 {object} result.Response
// @Router /api/boards [get]
func (h *handler) GetBoards(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	boards, err := h.service.GetBoards(c.Request.Context(), auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, result.Response{Error: "Failed to fetch boards"})
		return
	}
	result.Data(c, boards)
}

// @Summary Get one board
// @Tags Board
// @Produce json
// @Param boardId path string true "Board id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/boards/{boardId} [get]
func (h *handler) GetBoard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	board, err := h.service.GetBoard(c.Request.Context(), auth, c.Param("boardId"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, board)
}

// @Summary Create a board
// @Tags Board
// @Accept json
// @Produce json
// @Param request body createBoardRequest true "Title and cover image"
// @Success 200 {object} result.Response
// @Failure 400 {object} result.Response
// @Router /api/boards [post]
func (h *handler) CreateBoard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	board, err := h.service.CreateBoard(c.Request.Context(), auth, req.Title, req.Image)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, board)
}

// @Summary Update a board's title and/or cover image
// @Tags Board
// @Accept json
// @Produce json
// @Param boardId path string true "Board id"
// @Param request body updateBoardRequest true "Fields to update"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/boards/{boardId} [patch]
func (h *handler) UpdateBoard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req updateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	board, err := h.service.UpdateBoard(c.Request.Context(), auth, c.Param("boardId"), req.Title, req.Image)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, board)
}

// @Summary Delete a board
// @Tags Board
// @Produce json
// @Param boardId path string true "Board id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/boards/{boardId} [delete]
func (h *handler) DeleteBoard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	board, err := h.service.DeleteBoard(c.Request.Context(), auth, c.Param("boardId"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, board)
}

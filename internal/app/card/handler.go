package card

import (
	"net/http"
	"time"

	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetCard(c *gin.Context)
	CreateCard(c *gin.Context)
	UpdateCard(c *gin.Context)
	CloneCard(c *gin.Context)
	MoveCard(c *gin.Context)
	DeleteCard(c *gin.Context)
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

type createCardRequest struct {
	ListID string `json:"list_id" binding:"required"`
	Title  string `json:"title"`
}

type updateCardRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	ClearDue    bool       `json:"clear_due"`
}

type moveCardRequest struct {
	ListID string `json:"list_id"`
	Index  *int   `json:"index" binding:"required"`
}

// @Summary Get one card
// @Tags Card
// @Produce json
// @Param cardId path string true "Card id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/cards/{cardId} [get]
func (h *handler) GetCard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	card, err := h.service.GetCard(c.Request.Context(), auth, c.Param("cardId"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, card)
}

// @Summary Create a card at the end of a list
// @Tags Card
// @Accept json
// @Produce json
// @Param request body createCardRequest true "List and title"
// @Success 200 {object} result.Response
// @Failure 400 {object} result.Response
// @Router /api/cards [post]
func (h *handler) CreateCard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req createCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	card, err := h.service.CreateCard(c.Request.Context(), auth, req.ListID, req.Title)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, card)
}

// @Summary Update a card's title, description or due date
// @Tags Card
// @Accept json
// @Produce json
// @Param cardId path string true "Card id"
// @Param request body updateCardRequest true "Fields to update"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/cards/{cardId} [patch]
func (h *handler) UpdateCard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req updateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	card, err := h.service.UpdateCard(c.Request.Context(), auth, c.Param("cardId"), CardUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
	})
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, card)
}

// @Summary Clone a card into the same list
// @Tags Card
// @Produce json
// @Param cardId path string true "Card id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/cards/{cardId}/clone [post]
func (h *handler) CloneCard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	card, err := h.service.CloneCard(c.Request.Context(), auth, c.Param("cardId"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, card)
}

// @Summary Move a card within its list or to another list
// @Tags Card
// @Accept json
// @Produce json
// @Param cardId path string true "Card id"
// @Param request body moveCardRequest true "Destination list and index"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/cards/{cardId}/move [put]
func (h *handler) MoveCard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req moveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	card, err := h.service.MoveCard(c.Request.Context(), auth, c.Param("cardId"), req.ListID, *req.Index)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, card)
}

// @Summary Delete a card
// @Tags Card
// @Produce json
// @Param cardId path string true "Card id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/cards/{cardId} [delete]
func (h *handler) DeleteCard(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	card, err := h.service.DeleteCard(c.Request.Context(), auth, c.Param("cardId"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, card)
}

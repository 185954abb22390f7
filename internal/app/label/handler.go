package label

import (
	"net/http"

	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListLabels(c *gin.Context)
	CreateLabel(c *gin.Context)
	UpdateLabel(c *gin.Context)
	DeleteLabel(c *gin.Context)
	AssignLabel(c *gin.Context)
	UnassignLabel(c *gin.Context)
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
		c.JSON(http.StatusUnauthorized, result.Response{Error: "Unauthorized"})
		return nil, false
	}
	return auth, true
}

type labelRequest struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	BoardID string `json:"board_id"`
}

type assignRequest struct {
	CardID  string `json:"card_id" binding:"required"`
	LabelID string `json:"label_id" binding:"required"`
	BoardID string `json:"board_id"`
}

// @Summary All labels of the active organization, sorted by name
// @Tags Label
// @Produce json
// @Success 200 {array} Label
// @Failure 401 {object} result.Response
// @Failure 500 {object} result.Response
// @Router /api/labels [get]
func (h *handler) ListLabels(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	labels, err := h.service.ListLabels(c.Request.Context(), auth)
	if err != nil {
		c.JSON(http.StatusInternalServerError, result.Response{Error: "Internal Error"})
		return
	}
	c.JSON(http.StatusOK, labels)
}

// @Summary Create a label
// @Tags Label
// @Accept json
// @Produce json
// @Param request body labelRequest true "Name and hex color"
// @Success 200 {object} result.Response
// @Failure 400 {object} result.Response
// @Router /api/labels [post]
func (h *handler) CreateLabel(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	label, err := h.service.CreateLabel(c.Request.Context(), auth, req.Name, req.Color, req.BoardID)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, label)
}

// @Summary Update a label
// @Tags Label
// @Accept json
// @Produce json
// @Param labelId path string true "Label id"
// @Param request body labelRequest true "Name and hex color"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/labels/{labelId} [patch]
func (h *handler) UpdateLabel(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req labelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	label, err := h.service.UpdateLabel(c.Request.Context(), auth, c.Param("labelId"), req.Name, req.Color, req.BoardID)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, label)
}

// @Summary Delete a label and all its assignments
// @Tags Label
// @Produce json
// @Param labelId path string true "Label id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/labels/{labelId} [delete]
func (h *handler) DeleteLabel(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	label, err := h.service.DeleteLabel(c.Request.Context(), auth, c.Param("labelId"), c.Query("board_id"))
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, label)
}

// @Summary Assign a label to a card
// @Tags Label
// @Accept json
// @Produce json
// @Param request body assignRequest true "Card and label"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/card-labels [post]
func (h *handler) AssignLabel(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	cardLabel, err := h.service.AssignLabel(c.Request.Context(), auth, req.CardID, req.LabelID, req.BoardID)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, cardLabel)
}

// @Summary Remove a label from a card
// @Tags Label
// @Accept json
// @Produce json
// @Param request body assignRequest true "Card and label"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/card-labels [delete]
func (h *handler) UnassignLabel(c *gin.Context) {
	auth, ok := h.auth(c)
	if !ok {
		return
	}

	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, result.Response{Error: "Invalid request body"})
		return
	}

	err := h.service.UnassignLabel(c.Request.Context(), auth, req.CardID, req.LabelID, req.BoardID)
	if err != nil {
		result.Error(c, err)
		return
	}
	result.Data(c, gin.H{"card_id": req.CardID, "label_id": req.LabelID})
}

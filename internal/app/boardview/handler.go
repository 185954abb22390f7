package boardview

import (
	"errors"
	"net/http"

	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetFullBoard(c *gin.Context)
}

type handler struct {
	service     Service
	identitySvc identity.Service
}

func NewHandler(service Service, identitySvc identity.Service) Handler {
	return &handler{service: service, identitySvc: identitySvc}
}

// @Summary Full board view: lists, cards and card labels, in order
// @Tags Board
// @Produce json
// @Param boardId path string true "Board id"
// @Success 200 {object} result.Response
// @Failure 404 {object} result.Response
// @Router /api/boards/{boardId}/full [get]
func (h *handler) GetFullBoard(c *gin.Context) {
	auth, err := h.identitySvc.GetAuth(identity.SessionKey(c))
	if err != nil {
		result.Error(c, result.ErrUnauthorized)
		return
	}

	view, err := h.service.GetFullBoard(c.Request.Context(), auth, c.Param("boardId"))
	if err != nil {
		var nf *result.NotFoundError
		if errors.As(err, &nf) {
			result.Error(c, err)
			return
		}
		c.JSON(http.StatusInternalServerError, result.Response{Error: "Failed to fetch board"})
		return
	}
	result.Data(c, view)
}

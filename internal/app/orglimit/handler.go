package orglimit

import (
	"net/http"

	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetAvailableCount(c *gin.Context)
}

type handler struct {
	service     Service
	identitySvc identity.Service
}

func NewHandler(service Service, identitySvc identity.Service) Handler {
	return &handler{service: service, identitySvc: identitySvc}
}

// @Summary Boards used under the free tier
// @Tags OrgLimit
// @Produce json
// @Success 200 {object} result.Response
// @Failure 401 {object} result.Response
// @Router /api/org-limit [get]
func (h *handler) GetAvailableCount(c *gin.Context) {
	auth, err := h.identitySvc.GetAuth(identity.SessionKey(c))
	if err != nil {
		result.Error(c, result.ErrUnauthorized)
		return
	}

	count, err := h.service.GetAvailableCount(auth.OrgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, result.Response{Error: "Failed to fetch org limit"})
		return
	}
	result.Data(c, gin.H{"count": count})
}

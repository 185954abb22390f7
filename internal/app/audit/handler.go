package audit

import (
	"net/http"
	"strconv"

	"taskboard/internal/app/identity"
	"taskboard/internal/app/result"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListByOrg(c *gin.Context)
	ListByEntity(c *gin.Context)
}

type handler struct {
	service     Service
	identitySvc identity.Service
}

func NewHandler(service Service, identitySvc identity.Service) Handler {
	return &handler{service: service, identitySvc: identitySvc}
}

type listResponse struct {
	Logs  []*Log `json:"logs"`
	Total int64  `json:"total"`
}

// @Summary Activity for the active organization
// @Tags Audit
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} result.Response
// @Failure 401 {object} result.Response
// @Router /api/audit-logs [get]
func (h *handler) ListByOrg(c *gin.Context) {
	auth, err := h.identitySvc.GetAuth(identity.SessionKey(c))
	if err != nil {
		result.Error(c, result.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, total, err := h.service.ListByOrg(c.Request.Context(), auth, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, result.Response{Error: "Failed to fetch activity"})
		return
	}
	result.Data(c, listResponse{Logs: logs, Total: total})
}

// @Summary Activity for a single entity
// @Tags Audit
// @Produce json
// @Param entityId path string true "Entity id"
// @Success 200 {object} result.Response
// @Failure 401 {object} result.Response
// @Router /api/audit-logs/{entityId} [get]
func (h *handler) ListByEntity(c *gin.Context) {
	auth, err := h.identitySvc.GetAuth(identity.SessionKey(c))
	if err != nil {
		result.Error(c, result.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "3"))

	logs, err := h.service.ListByEntity(c.Request.Context(), auth, c.Param("entityId"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, result.Response{Error: "Failed to fetch activity"})
		return
	}
	result.Data(c, logs)
}

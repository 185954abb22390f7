package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionKey extracts the caller's session key from the request.
func SessionKey(c *gin.Context) string {
	return c.GetHeader("X-Session-Key")
}

type Handler interface {
	CreateSession(c *gin.Context)
	SwitchOrg(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

type createSessionRequest struct {
	Name string `json:"name"`
}

type switchOrgRequest struct {
	OrgID string `json:"org_id" binding:"required"`
}

// @Summary Open a session
// @Description Create (or resume) a user and open a session with their default organization active
// @Tags Session
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/session [post]
func (h *handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	_ = c.ShouldBindJSON(&req)

	session, user, org, err := h.service.CreateSession(req.Name, c.GetHeader("User-Agent"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_key": session.SessionKey,
		"user":        user,
		"org":         org,
	})
}

// @Summary Switch active organization
// @Tags Session
// @Accept json
// @Produce json
// @Param request body switchOrgRequest true "Target organization"
// @Success 200 {object} Session
// @Failure 401 {object} map[string]string
// @Router /api/session/org [put]
func (h *handler) SwitchOrg(c *gin.Context) {
	var req switchOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "org_id is required"})
		return
	}

	session, err := h.service.SwitchOrg(SessionKey(c), req.OrgID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

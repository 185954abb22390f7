package router

import (
	"taskboard/internal/app/audit"
	"taskboard/internal/app/board"
	"taskboard/internal/app/boardview"
	"taskboard/internal/app/card"
	"taskboard/internal/app/health"
	"taskboard/internal/app/identity"
	"taskboard/internal/app/label"
	"taskboard/internal/app/list"
	"taskboard/internal/app/orglimit"
	"taskboard/internal/app/upload"
	"taskboard/internal/gateways/websocket"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(logger *zap.Logger) *Router {
	engine := gin.New()
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.LoggerMiddleware(logger))
	engine.Use(gin.Recovery())
	return &Router{Engine: engine}
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterWebSocketRoutes(handler *websocket.ServeWSHandler) {
	websocket.RegisterRoutes(r.Engine, handler)
}

func (r *Router) RegisterIdentityRoutes(handler identity.Handler) {
	identity.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterBoardViewRoutes(handler boardview.Handler) {
	boardview.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterListRoutes(handler list.Handler) {
	list.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterCardRoutes(handler card.Handler) {
	card.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterLabelRoutes(handler label.Handler) {
	label.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterAuditRoutes(handler audit.Handler) {
	audit.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterOrgLimitRoutes(handler orglimit.Handler) {
	orglimit.RegisterRoutes(r.Engine.Group("/api"), handler)
}

func (r *Router) RegisterUploadRoutes(handler *upload.Handler) {
	upload.RegisterRoutes(r.Engine.Group("/api"), handler)
}

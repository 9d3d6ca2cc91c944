package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.meetingHandler.Health)

	v1 := e.Group("/api/v1")
	rt.setupMeetingRoutes(v1)
	rt.setupAdminRoutes(v1)
}

func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.POST("/process", rt.meetingHandler.Process)
	meetings.POST("/upload", rt.meetingHandler.Upload)
	meetings.GET("/search", rt.meetingHandler.Search)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.GET("/:id/transcript", rt.meetingHandler.GetTranscript)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)

	g.GET("/stats", rt.meetingHandler.Stats)
}

func (rt *Router) setupAdminRoutes(g *echo.Group) {
	admin := g.Group("/admin")
	admin.POST("/dedup", rt.meetingHandler.Dedup)
}

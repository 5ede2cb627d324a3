package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"takeorder/internal/dialogue"
	"takeorder/internal/menu"
	"takeorder/internal/monitoring"
)

// Server is the conversational surface. Each websocket connection gets
// its own dialogue session; sessions share the catalog, the ledger
// gateway, and the persistence store but no conversational state.
type Server struct {
	router  *gin.Engine
	catalog *menu.Catalog
	gateway dialogue.Gateway
	store   dialogue.Store
	monitor *monitoring.Monitor
}

// NewServer creates a chat server instance
func NewServer(catalog *menu.Catalog, gateway dialogue.Gateway, store dialogue.Store, monitor *monitoring.Monitor) *Server {
	server := &Server{
		router:  gin.Default(),
		catalog: catalog,
		gateway: gateway,
		store:   store,
		monitor: monitor,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "takeorder is running"})
	})
	s.router.GET("/ws", s.handleWebSocket)

	api := s.router.Group("/api")
	{
		api.GET("/menu", s.handleMenu)
		api.GET("/metrics", s.handleMetrics)
	}
}

// Router returns the Gin router
func (s *Server) Router() *gin.Engine {
	return s.router
}

// handleMenu returns the catalog in definition order
func (s *Server) handleMenu(c *gin.Context) {
	items := s.catalog.Items()
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{"name": item.Name, "price": item.Price})
	}
	c.JSON(http.StatusOK, out)
}

// handleMetrics returns the monitor's current metric snapshot
func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aiostudio/console/internal/health"
	"github.com/aiostudio/console/internal/models"
	"github.com/aiostudio/console/internal/registry"
	"github.com/aiostudio/console/internal/stats"
)

type statsSource interface {
	Snapshot() (stats.Snapshot, bool)
	Ready() bool
}

type nodeSource interface {
	Snapshot() (health.Snapshot, bool)
	Ready() bool
}

// API serves the console view state consumed by the dashboard and monitoring
// pages.
type API struct {
	stats    statsSource
	nodes    nodeSource
	registry *registry.Registry
	logger   *zap.Logger
}

func New(statsSrc statsSource, nodeSrc nodeSource, reg *registry.Registry, logger *zap.Logger) *API {
	return &API{
		stats:    statsSrc,
		nodes:    nodeSrc,
		registry: reg,
		logger:   logger,
	}
}

func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	r.GET("/healthz", a.handleHealthz)
	r.GET("/readyz", a.handleReadyz)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/dashboard", a.handleDashboard)
		v1.GET("/stats", a.handleStats)
		v1.GET("/nodes", a.handleNodes)
		v1.GET("/servers", a.handleListServers)
		v1.POST("/servers", a.handleAddServer)
		v1.DELETE("/servers/:id", a.handleRemoveServer)
		v1.POST("/servers/:id/test", a.handleTestServer)
		v1.GET("/servers/:id/metrics", a.handleServerMetrics)
	}

	return r
}

type dashboardResponse struct {
	Stats stats.Snapshot  `json:"stats"`
	Nodes health.Snapshot `json:"nodes"`
}

func (a *API) handleDashboard(c *gin.Context) {
	statsSnap, statsOK := a.stats.Snapshot()
	nodeSnap, nodesOK := a.nodes.Snapshot()
	if !statsOK && !nodesOK {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot unavailable"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dashboardResponse{
		Stats: statsSnap,
		Nodes: nodeSnap,
	})
}

func (a *API) handleStats(c *gin.Context) {
	snapshot, ok := a.stats.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot unavailable"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (a *API) handleNodes(c *gin.Context) {
	snapshot, ok := a.nodes.Snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot unavailable"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (a *API) handleListServers(c *gin.Context) {
	servers := a.registry.List()
	c.JSON(http.StatusOK, gin.H{
		"servers": servers,
		"count":   len(servers),
	})
}

type addServerRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Host        string                    `json:"host" binding:"required"`
	Port        int                       `json:"port" binding:"required,min=1,max=65535"`
	Type        string                    `json:"type" binding:"required,oneof=ssh api snmp"`
	Credentials *models.ServerCredentials `json:"credentials"`
}

func (a *API) handleAddServer(c *gin.Context) {
	var req addServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	server, err := a.registry.Add(models.Server{
		Name:        req.Name,
		Host:        req.Host,
		Port:        req.Port,
		Type:        models.ServerType(req.Type),
		Credentials: req.Credentials,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a.logger.Info("server added",
		zap.String("id", server.ID),
		zap.String("name", server.Name))
	c.JSON(http.StatusCreated, server)
}

func (a *API) handleRemoveServer(c *gin.Context) {
	id := c.Param("id")
	if err := a.registry.Remove(id); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.logger.Info("server removed", zap.String("id", id))
	c.Status(http.StatusNoContent)
}

func (a *API) handleTestServer(c *gin.Context) {
	message, err := a.registry.TestConnection(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (a *API) handleServerMetrics(c *gin.Context) {
	metrics, err := a.registry.Metrics(c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "server not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (a *API) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleReadyz(c *gin.Context) {
	if !a.stats.Ready() || !a.nodes.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes registers order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.ListOrders)
		orders.DELETE("", h.DeleteAllOrders)
		orders.POST("/sync", h.TriggerSync)
	}
}

// RegisterRoutes registers sync run history endpoints
func (h *LogsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/logs", h.ListSyncRuns)
}

// RegisterRoutes registers system and dashboard endpoints
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/info", h.GetSystemInfo)
		system.GET("/ping", h.Ping)
	}
	rg.GET("/dashboard/health", h.GetHealth)
}

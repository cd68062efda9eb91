package http

import (
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/adminauth"
	"github.com/gin-gonic/gin"
)

// Register registers the public gallery routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.ListTemplates)
	rg.GET("/categories", h.ListByCategory)
	rg.GET("/stats", h.Statistics)
	rg.GET("/events", h.StreamTemplateEvents)
	rg.GET("/:id", h.GetTemplate)
}

// RegisterAdmin registers the admin routes. Everything except login needs a
// session token.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)

	secured := rg.Group("")
	secured.Use(adminauth.RequireAdmin(h.sessions))
	secured.POST("/logout", h.Logout)
	secured.PUT("/password", h.ChangePassword)
	secured.POST("/templates", h.CreateTemplate)
	secured.PUT("/templates/:id", h.UpdateTemplate)
	secured.DELETE("/templates/:id", h.DeleteTemplate)
	secured.DELETE("/templates", h.ClearTemplates)
	secured.GET("/export", h.ExportTemplates)
	secured.POST("/import", h.ImportTemplates)
	secured.POST("/reload", h.ReloadTemplates)
}

package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Backend   string    `json:"backend"`
	Storage   string    `json:"storage"`
	Templates int       `json:"templates"`
}

type HealthHandler struct {
	serviceName string
	version     string
	backend     string
	storage     Pinger
	count       func() int
}

// NewHealthHandler reports the status of storage. count may be nil.
func NewHealthHandler(serviceName, version, backend string, storage Pinger, count func() int) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		backend:     backend,
		storage:     storage,
		count:       count,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	status := "healthy"
	storageStatus := "disabled"
	code := http.StatusOK
	if h.storage != nil {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.storage.Ping(pingCtx); err != nil {
			storageStatus = "down"
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else {
			storageStatus = "up"
		}
	}

	templates := 0
	if h.count != nil {
		templates = h.count()
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Backend:   h.backend,
		Storage:   storageStatus,
		Templates: templates,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

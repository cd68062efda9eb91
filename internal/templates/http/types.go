package http

import (
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/adminauth"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler handles HTTP requests for the gallery and the admin console.
type Handler struct {
	store       *service.TemplateStore
	credentials *adminauth.Credentials
	sessions    *adminauth.Sessions
	limiter     *adminauth.LoginLimiter
	log         logrus.FieldLogger
	now         func() time.Time
}

// New creates a new Handler
func New(store *service.TemplateStore, credentials *adminauth.Credentials, sessions *adminauth.Sessions, limiter *adminauth.LoginLimiter, log logrus.FieldLogger) *Handler {
	return &Handler{
		store:       store,
		credentials: credentials,
		sessions:    sessions,
		limiter:     limiter,
		log:         log,
		now:         time.Now,
	}
}

// logger returns the handler logger tagged with the request id.
func (h *Handler) logger(c *gin.Context) logrus.FieldLogger {
	if rid := middleware.GetRequestID(c.Request.Context()); rid != "" {
		return h.log.WithField("request_id", rid)
	}
	return h.log
}

type loginRequest struct {
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

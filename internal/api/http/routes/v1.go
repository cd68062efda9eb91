package routes

import (
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/adminauth"
	templateshttp "github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/http"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type V1Deps struct {
	Store       *service.TemplateStore
	Credentials *adminauth.Credentials
	Sessions    *adminauth.Sessions
	Limiter     *adminauth.LoginLimiter
	Log         logrus.FieldLogger
}

// RegisterV1 mounts the gallery under /api/v1/templates and the admin
// console under /api/v1/admin.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	h := templateshttp.New(dep.Store, dep.Credentials, dep.Sessions, dep.Limiter, dep.Log)
	h.Register(api.Group("/templates"))
	h.RegisterAdmin(api.Group("/admin"))
}

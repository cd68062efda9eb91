package bootstrap

import (
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/adminauth"
	httpapi "github.com/GoSim-25-26J-441/photogrid-backend/internal/api/http"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/api/http/middleware"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/api/http/routes"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/kvstore"
	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	Backend        string
	AllowedOrigins []string
	KV             kvstore.Store
	Store          *service.TemplateStore
	Credentials    *adminauth.Credentials
	Sessions       *adminauth.Sessions
	Limiter        *adminauth.LoginLimiter
	Log            logrus.FieldLogger
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware(dep.Log))
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Backend, dep.KV, dep.Store.Len)
	healthHandler.RegisterRoutes(r)

	routes.RegisterV1(r, routes.V1Deps{
		Store:       dep.Store,
		Credentials: dep.Credentials,
		Sessions:    dep.Sessions,
		Limiter:     dep.Limiter,
		Log:         dep.Log,
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Disposition", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/pedl/portfolio-backend/internal/api/http"
	apimiddleware "github.com/pedl/portfolio-backend/internal/api/http/middleware"
	authhttp "github.com/pedl/portfolio-backend/internal/auth/http"
	authmiddleware "github.com/pedl/portfolio-backend/internal/auth/middleware"
	authservice "github.com/pedl/portfolio-backend/internal/auth/service"
	partnershttp "github.com/pedl/portfolio-backend/internal/partners/http"
	partnersservice "github.com/pedl/portfolio-backend/internal/partners/service"
	projectshttp "github.com/pedl/portfolio-backend/internal/projects/http"
	projectsservice "github.com/pedl/portfolio-backend/internal/projects/service"

	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	WriteRPS       float64
	WriteBurst     int

	Redis    *redis.Client
	Auth     *authservice.AuthService
	Projects *projectsservice.ProjectService
	Partners *partnersservice.PartnerService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(apimiddleware.RequestIDMiddleware())

	authhttp.New(dep.Auth).Register(api.Group("/auth"))

	adminGuard := authmiddleware.AdminOnly(dep.Auth)
	writeLimit := apimiddleware.WriteRateLimit(dep.WriteRPS, dep.WriteBurst)

	projectsPublic := api.Group("/projects")
	projectsAdmin := api.Group("/projects")
	projectsAdmin.Use(adminGuard, writeLimit)
	projectshttp.New(dep.Projects).Register(projectsPublic, projectsAdmin)

	partnersPublic := api.Group("/partners")
	partnersAdmin := api.Group("/partners")
	partnersAdmin.Use(adminGuard, writeLimit)
	partnershttp.New(dep.Partners).Register(partnersPublic, partnersAdmin)

	return r
}

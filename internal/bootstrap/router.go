package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/defectflow/projects-service/internal/api/http"
	"github.com/defectflow/projects-service/internal/api/http/middleware"
	"github.com/defectflow/projects-service/internal/auth"
	projectshttp "github.com/defectflow/projects-service/internal/projects/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	JWTSecret   string
	DB          *pgxpool.Pool
	Projects    projectshttp.ProjectService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	// Open CORS, same as the rest of the platform; tighten per deployment.
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(auth.Middleware([]byte(dep.JWTSecret)))

	projectsGroup := api.Group("/projects")
	projectshttp.New(dep.Projects).Register(projectsGroup)

	return r
}

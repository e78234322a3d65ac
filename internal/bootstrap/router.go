package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/AmlrSF/portfolio-client/internal/api/http"
	"github.com/AmlrSF/portfolio-client/internal/api/http/middleware"
	galleryhttp "github.com/AmlrSF/portfolio-client/internal/gallery/http"
	"github.com/AmlrSF/portfolio-client/internal/gallery/repository"
	"github.com/AmlrSF/portfolio-client/internal/gallery/trending"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	CORSOrigins    []string
	TrendingWindow time.Duration
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins: dep.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-Request-Id"},
		MaxAge:       12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	repo := repository.NewRepo(dep.DB)
	tracker := trending.NewTracker(dep.Redis, dep.TrendingWindow)
	handler := galleryhttp.NewHandler(repo, tracker)

	api := r.Group("/api")
	galleryhttp.Register(api, handler)

	return r
}

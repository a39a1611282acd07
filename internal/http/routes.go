package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	}))

	r.GET("/health", h.Healthz)
	r.GET("/", h.Root)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if h.RateLimitPerMin > 0 {
		limit = RateLimitAuth(h.Redis, h.RateLimitPerMin, NewRateLimiter(h.RateLimitPerMin, time.Minute))
	}

	authGrp := r.Group("/api/v1/auth")
	{
		authGrp.POST("/register", limit, h.Register)
		authGrp.POST("/login", limit, h.Login)
		authGrp.GET("/me", RequireBearer(), h.Me)
	}

	// placeholder feature groups
	api := r.Group("/api")
	{
		api.GET("/health", h.HealthDataStub)
		api.POST("/health", h.CreateHealthRecordStub)
		api.GET("/users", h.UsersStub)
		api.GET("/users/:id", h.UserByIDStub)
	}

	return r
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	docs "github.com/Anan1218/homehealth/docs"
	"github.com/Anan1218/homehealth/internal/auth"
	"github.com/Anan1218/homehealth/internal/config"
	api "github.com/Anan1218/homehealth/internal/http"
	"github.com/Anan1218/homehealth/internal/log"
	"github.com/Anan1218/homehealth/internal/metrics"
	"github.com/Anan1218/homehealth/internal/provider"
	"github.com/Anan1218/homehealth/internal/queue"
)

// @title HomeHealth API
// @version 1.0.0
// @description Healthcare application API with feature-based architecture
// @schemes http https
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Env == "prod")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.DDEnabled {
		tracer.Start(
			tracer.WithService("homehealth-api"),
			tracer.WithEnv(cfg.Env),
		)
		defer tracer.Stop()
	}

	metrics.MustRegister()

	// both provider handles are built once and injected; no lazy singletons
	admin := provider.New(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	anon := provider.New(cfg.SupabaseURL, cfg.SupabaseAnonKey)
	svc := auth.NewService(admin, anon)

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
	}

	pub := queue.NewNoop()
	if cfg.RabbitURL != "" {
		p, err := queue.NewRabbit(cfg.RabbitURL, queue.Exchange)
		if err != nil {
			logger.Fatal("rabbit connect", zap.Error(err))
		}
		pub = p
	}
	defer pub.Close()

	docs.SwaggerInfo.BasePath = "/"

	h := api.NewHandler(svc, pub, rdb, cfg.RateLimitPerMin)
	r := api.NewRouter(h, cfg.AllowedOrigins)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	logger.Info("homehealth-api listening", zap.String("port", cfg.Port))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("shutting down", zap.String("signal", s.String()))
	case err := <-srvErr:
		logger.Error("server error", zap.Error(err))
	}
}

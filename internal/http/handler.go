package http

import (
	"github.com/go-redis/redis/v8"

	"github.com/Anan1218/homehealth/internal/auth"
	"github.com/Anan1218/homehealth/internal/queue"
)

type Handler struct {
	Auth            *auth.Service
	Events          queue.Publisher
	Redis           *redis.Client
	RateLimitPerMin int
}

func NewHandler(svc *auth.Service, pub queue.Publisher, rds *redis.Client, rlPerMin int) *Handler {
	return &Handler{
		Auth:            svc,
		Events:          pub,
		Redis:           rds,
		RateLimitPerMin: rlPerMin,
	}
}

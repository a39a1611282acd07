package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port               string
	Env                string
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	AllowedOrigins     []string
	RedisAddr          string
	RabbitURL          string
	RateLimitPerMin    int
	DDEnabled          bool
}

func Load() Config {
	return Config{
		Port:               getenv("APP_PORT", "8000"),
		Env:                getenv("APP_ENV", "dev"),
		SupabaseURL:        getenv("SUPABASE_URL", "http://localhost:54321"),
		SupabaseAnonKey:    getenv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getenv("SUPABASE_SERVICE_ROLE_KEY", ""),
		AllowedOrigins:     split(getenv("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		RabbitURL:          getenv("RABBIT_URL", ""),
		RateLimitPerMin:    atoi(getenv("RATE_LIMIT_PER_MIN", "0")),
		DDEnabled:          getenv("DD_ENABLED", "") == "true",
	}
}

func split(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

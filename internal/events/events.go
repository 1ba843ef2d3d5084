package events

import (
	"log/slog"
	"os"

	"github.com/librarease/assetvault/internal/config"
	"github.com/librarease/assetvault/internal/usecase"
)

// FromEnv picks the Redis broker when REDIS_HOST is set and the local
// one otherwise.
func FromEnv(logger *slog.Logger) usecase.Broker {
	host := os.Getenv(config.ENV_KEY_REDIS_HOST)
	if host == "" {
		return NewLocalBroker()
	}
	port := os.Getenv(config.ENV_KEY_REDIS_PORT)
	if port == "" {
		port = "6379"
	}
	return NewRedisBroker(host+":"+port, os.Getenv(config.ENV_KEY_REDIS_PASSWORD), logger)
}

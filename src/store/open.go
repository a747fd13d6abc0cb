package store

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"positionalerts/src/database"
)

// ResolveBackend picks the backend when STORE_BACKEND is empty: redis, then
// postgres, then the local sqlite file, which is refused in production.
func ResolveBackend(config Config, dbConfig database.Config) (string, error) {
	if config.Backend != BackendAuto {
		return config.Backend, nil
	}
	switch {
	case config.RedisURL != "":
		return BackendRedis, nil
	case dbConfig.DatabaseURL != "":
		return BackendPostgres, nil
	case !config.Production():
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("%w: production requires REDIS_URL or DATABASE_URL", ErrUnknownBackend)
	}
}

// Open connects the configured backend.
func Open(ctx context.Context, config Config, dbConfig database.Config) (Backend, error) {
	backend, err := ResolveBackend(config, dbConfig)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"backend":   backend,
		"namespace": config.Namespace,
	}).Info("[store] opening backend")

	switch backend {
	case BackendRedis:
		return NewRedisStore(ctx, config.RedisURL)
	case BackendPostgres:
		db, err := database.OpenPostgres(dbConfig)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case BackendSQLite:
		db, err := database.OpenSQLite(dbConfig)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

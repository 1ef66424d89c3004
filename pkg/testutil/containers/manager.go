//go:build integration

package containers

import (
	"context"
	"sync"
	"time"
)

const startupTimeout = 2 * time.Minute

// Containers are shared across suites in a test binary. Ryuk removes them
// when the process exits, so nothing is terminated here.
type containerManager struct {
	redisOnce    sync.Once
	redisC       *RedisContainer
	redisErr     error
	postgresOnce sync.Once
	postgresC    *PostgresContainer
	postgresErr  error
	redpandaOnce sync.Once
	redpandaC    *RedpandaContainer
	redpandaErr  error
}

var manager = &containerManager{}

func (m *containerManager) redis() (*RedisContainer, error) {
	m.redisOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		m.redisC, m.redisErr = startRedis(ctx)
	})
	return m.redisC, m.redisErr
}

func (m *containerManager) postgres() (*PostgresContainer, error) {
	m.postgresOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		m.postgresC, m.postgresErr = startPostgres(ctx)
	})
	return m.postgresC, m.postgresErr
}

func (m *containerManager) redpanda() (*RedpandaContainer, error) {
	m.redpandaOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		m.redpandaC, m.redpandaErr = startRedpanda(ctx)
	})
	return m.redpandaC, m.redpandaErr
}

//go:build integration

package containers

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
)

// RedpandaContainer wraps a Kafka-compatible broker for audit sink tests.
type RedpandaContainer struct {
	Container testcontainers.Container
	Brokers   []string
}

func startRedpanda(ctx context.Context) (*RedpandaContainer, error) {
	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.7",
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, err
	}
	broker, err := container.KafkaSeedBroker(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	return &RedpandaContainer{Container: container, Brokers: []string{broker}}, nil
}

// Redpanda returns the shared broker container, starting it on first use.
func Redpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	c, err := manager.redpanda()
	if err != nil {
		t.Fatalf("failed to start redpanda container: %v", err)
	}
	return c
}

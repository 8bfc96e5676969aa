//go:build integration

package containers

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"
)

const LocalStackRegion = "eu-west-2"

type LocalStackContainer struct {
	Container testcontainers.Container
	// Endpoint is the edge URL, e.g. http://localhost:32791.
	Endpoint string
}

func NewLocalStackContainer(t *testing.T) *LocalStackContainer {
	t.Helper()

	ctx := context.Background()

	container, err := localstack.Run(ctx,
		"localstack/localstack:3.8",
		testcontainers.WithEnv(map[string]string{
			"SERVICES":       "s3,kms",
			"DEFAULT_REGION": LocalStackRegion,
		}),
	)
	if err != nil {
		t.Fatalf("failed to start localstack container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get localstack host: %v", err)
	}
	port, err := container.MappedPort(ctx, "4566/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get localstack port: %v", err)
	}

	return &LocalStackContainer{
		Container: container,
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
	}
}

package main

import (
	stdcontext "context"

	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/dependency"
)

func buildAndPush(ctx stdcontext.Context) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	return dependencyContainer.Image().BuildAndPush(ctx)
}

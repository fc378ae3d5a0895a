package main

import (
	stdcontext "context"

	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/dependency"
)

func clean(ctx stdcontext.Context) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	return dependencyContainer.Image().Clean(ctx)
}

func cleanBuilder(ctx stdcontext.Context) error {
	dependencyContainer, err := dependency.ContainerFromContext(ctx)
	if err != nil {
		return err
	}
	return dependencyContainer.Image().CleanBuilder(ctx)
}

package dependency

import (
	"context"
	"errors"
	"os"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/mcp-jfrog/tools/pkg/imagectl/application/model"
	"github.com/mcp-jfrog/tools/pkg/imagectl/application/service"
	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/command"
	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/docker"
	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/testtool"
)

var dependencyContainer = struct{}{}

type Container interface {
	Image() service.Image
}

func NewDependencyContainer(logger applogger.Logger, config model.Image) Container {
	runner := command.NewCommandRunner(logger)
	buildx := docker.NewBuildx(logger, runner)
	runtime := docker.NewContainerRuntime(logger, runner)
	testRunner := testtool.NewRunner(logger, runner, config.Test)
	imageService := service.NewImageService(config, logger, buildx, buildx, runtime, testRunner, os.Getenv)

	return &container{
		image: imageService,
	}
}

type container struct {
	image service.Image
}

func (c *container) Image() service.Image {
	return c.image
}

func ContainerFromContext(ctx context.Context) (Container, error) {
	v := ctx.Value(dependencyContainer)
	if c, ok := v.(Container); ok {
		return c, nil
	}
	return nil, errors.New("dependency container not found")
}

func ContainerToContext(ctx context.Context, c Container) context.Context {
	return context.WithValue(ctx, dependencyContainer, c)
}

package docker

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/mcp-jfrog/tools/pkg/imagectl/application/service"
	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/command"
)

// Buildx drives docker buildx: image builds plus the lifecycle of the
// named builder instance. It implements both service.ImageBuilder and
// service.BuilderProvider.
type Buildx struct {
	logger applogger.Logger
	runner command.Runner
}

func NewBuildx(logger applogger.Logger, runner command.Runner) *Buildx {
	return &Buildx{
		logger: logger,
		runner: runner,
	}
}

func (buildx Buildx) Build(ctx context.Context, request service.BuildRequest) error {
	args := []string{"buildx", "build"}
	if request.Builder != "" {
		args = append(args, "--builder", request.Builder)
	}
	if len(request.Platforms) > 0 {
		args = append(args, "--platform", strings.Join(request.Platforms, ","))
	}
	args = append(args, "-t", request.Ref)
	if request.Dockerfile != "" {
		args = append(args, "-f", request.Dockerfile)
	}
	if request.Push {
		args = append(args, "--push")
	} else {
		// keep the host-architecture image in the local store
		args = append(args, "--load")
	}
	buildContext := request.Context
	if buildContext == "" {
		buildContext = "."
	}
	args = append(args, buildContext)
	_, err := buildx.runner.Execute(ctx, command.Command{
		Executable: "docker",
		Args:       args,
		Verbose:    true,
	})
	return errors.Wrapf(err, "failed to build image %v", request.Ref)
}

func (buildx Buildx) Exist(ctx context.Context, name string) (bool, error) {
	// inspect exits non-zero when the builder is absent
	_, err := buildx.runner.Execute(ctx, command.Command{
		Executable: "docker",
		Args:       []string{"buildx", "inspect", name},
	})
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (buildx Buildx) Create(ctx context.Context, name string, platforms []string) error {
	args := []string{"buildx", "create", "--name", name, "--driver", "docker-container", "--bootstrap"}
	if len(platforms) > 0 {
		args = append(args, "--platform", strings.Join(platforms, ","))
	}
	_, err := buildx.runner.Execute(ctx, command.Command{
		Executable: "docker",
		Args:       args,
		Verbose:    true,
	})
	return errors.Wrapf(err, "failed to create builder %v", name)
}

func (buildx Buildx) Remove(ctx context.Context, name string) error {
	_, err := buildx.runner.Execute(ctx, command.Command{
		Executable: "docker",
		Args:       []string{"buildx", "rm", name},
	})
	return errors.Wrapf(err, "failed to remove builder %v", name)
}

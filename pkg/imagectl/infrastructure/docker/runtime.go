package docker

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/mcp-jfrog/tools/pkg/imagectl/application/service"
	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/command"
)

func NewContainerRuntime(logger applogger.Logger, runner command.Runner) service.ContainerRuntime {
	return &containerRuntime{
		logger: logger,
		runner: runner,
	}
}

type containerRuntime struct {
	logger applogger.Logger
	runner command.Runner
}

func (runtime containerRuntime) Run(ctx context.Context, options service.RunOptions) error {
	args := []string{"run", "--rm", "-p", fmt.Sprintf("%v:%v", options.Port, options.Port)}
	args = append(args, envFlags(options.Env)...)
	args = append(args, options.Ref)
	_, err := runtime.runner.Execute(ctx, command.Command{
		Executable:  "docker",
		Args:        args,
		Env:         options.Env,
		Interactive: true,
	})
	return errors.Wrapf(err, "failed to run image %v", options.Ref)
}

func (runtime containerRuntime) Shell(ctx context.Context, options service.RunOptions) error {
	args := []string{"run", "--rm", "-it", "--entrypoint", "/bin/sh"}
	args = append(args, envFlags(options.Env)...)
	args = append(args, options.Ref)
	_, err := runtime.runner.Execute(ctx, command.Command{
		Executable:  "docker",
		Args:        args,
		Env:         options.Env,
		Interactive: true,
	})
	return errors.Wrapf(err, "failed to start shell in image %v", options.Ref)
}

func (runtime containerRuntime) RemoveImage(ctx context.Context, ref string) error {
	_, err := runtime.runner.Execute(ctx, command.Command{
		Executable: "docker",
		Args:       []string{"rmi", "-f", ref},
	})
	return errors.Wrapf(err, "failed to remove image %v", ref)
}

// envFlags forwards variables by name only, so values stay out of the
// process argument list. The values travel in the command environment.
func envFlags(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	flags := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		flags = append(flags, "-e", key)
	}
	return flags
}

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"
	"github.com/urfave/cli/v2"

	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/config/imageconfig"
	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/dependency"
)

func main() {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()
	ctx = listenOSKillSignalsContext(ctx)
	mainLogger := logger.NewTextLogger()

	// Local overrides for dev runs; harmless in CI.
	_ = godotenv.Load()

	imageConfig, err := imageconfig.Load("imagectl.json")
	if err != nil {
		mainLogger.FatalError(err, "failed load image config")
	}
	container := dependency.NewDependencyContainer(mainLogger, imageConfig)
	ctx = dependency.ContainerToContext(ctx, container)

	app := &cli.App{
		Name:  "imagectl",
		Usage: "build, publish and run the mcp-jfrog container image",
		Commands: cli.Commands{
			&cli.Command{
				Name:  "build",
				Usage: "build the image for all configured platforms and push it",
				Action: func(c *cli.Context) error {
					return buildAndPush(c.Context)
				},
			},
			&cli.Command{
				Name:  "push",
				Usage: "alias of build: the multi-arch build always pushes",
				Action: func(c *cli.Context) error {
					return buildAndPush(c.Context)
				},
			},
			&cli.Command{
				Name:  "build-local",
				Usage: "build the image for the host architecture only",
				Action: func(c *cli.Context) error {
					return buildLocal(c.Context)
				},
			},
			&cli.Command{
				Name:  "ensure-builder",
				Usage: "create the buildx builder instance if it does not exist",
				Action: func(c *cli.Context) error {
					return ensureBuilder(c.Context)
				},
			},
			&cli.Command{
				Name:  "run",
				Usage: "run the built image, requires JFROG_URL and JFROG_ACCESS_TOKEN",
				Action: func(c *cli.Context) error {
					return run(c.Context)
				},
			},
			&cli.Command{
				Name:  "shell",
				Usage: "start an interactive shell inside the built image",
				Action: func(c *cli.Context) error {
					return shell(c.Context)
				},
			},
			&cli.Command{
				Name:  "test",
				Usage: "run the application test suite",
				Action: func(c *cli.Context) error {
					return test(c.Context)
				},
			},
			&cli.Command{
				Name:  "clean",
				Usage: "remove locally tagged images, ignoring absence",
				Action: func(c *cli.Context) error {
					return clean(c.Context)
				},
			},
			&cli.Command{
				Name:  "clean-builder",
				Usage: "remove the buildx builder instance, ignoring absence",
				Action: func(c *cli.Context) error {
					return cleanBuilder(c.Context)
				},
			},
		},
	}
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		mainLogger.FatalError(err, "failed execute command "+strings.Join(os.Args, " "))
	}
}

func listenOSKillSignalsContext(ctx context.Context) context.Context {
	var cancelFunc context.CancelFunc
	ctx, cancelFunc = context.WithCancel(ctx)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-ch:
			cancelFunc()
		case <-ctx.Done():
			return
		}
	}()
	return ctx
}

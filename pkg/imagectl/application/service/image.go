package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/mcp-jfrog/tools/pkg/imagectl/application/model"
)

// BuildRequest describes a single image build. An empty Platforms list
// means the host architecture; an empty Builder means the default one.
type BuildRequest struct {
	Ref        string
	Dockerfile string
	Context    string
	Platforms  []string
	Builder    string
	Push       bool
}

type RunOptions struct {
	Ref  string
	Port int
	Env  map[string]string
}

type ImageBuilder interface {
	Build(ctx context.Context, request BuildRequest) error
}

type BuilderProvider interface {
	Exist(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string, platforms []string) error
	Remove(ctx context.Context, name string) error
}

type ContainerRuntime interface {
	Run(ctx context.Context, options RunOptions) error
	Shell(ctx context.Context, options RunOptions) error
	RemoveImage(ctx context.Context, ref string) error
}

type TestRunner interface {
	Run(ctx context.Context) error
}

type Image interface {
	BuildAndPush(ctx context.Context) error
	BuildLocal(ctx context.Context) error
	Run(ctx context.Context) error
	Shell(ctx context.Context) error
	Test(ctx context.Context) error
	Clean(ctx context.Context) error
	EnsureBuilder(ctx context.Context) error
	CleanBuilder(ctx context.Context) error
}

func NewImageService(
	config model.Image,
	logger applogger.Logger,
	builder ImageBuilder,
	builderProvider BuilderProvider,
	runtime ContainerRuntime,
	testRunner TestRunner,
	lookupEnv func(key string) string,
) Image {
	return &image{
		config:          config,
		logger:          logger,
		builder:         builder,
		builderProvider: builderProvider,
		runtime:         runtime,
		testRunner:      testRunner,
		lookupEnv:       lookupEnv,
	}
}

type image struct {
	config model.Image

	logger          applogger.Logger
	builder         ImageBuilder
	builderProvider BuilderProvider
	runtime         ContainerRuntime
	testRunner      TestRunner
	lookupEnv       func(key string) string
}

func (service image) BuildAndPush(ctx context.Context) error {
	err := service.config.Validate()
	if err != nil {
		return err
	}
	err = service.EnsureBuilder(ctx)
	if err != nil {
		return err
	}
	service.logger.Info(fmt.Sprintf(
		"start build and push \"%v\" for %v...",
		service.config.Ref(), strings.Join(service.config.Platforms, ", "),
	))
	start := time.Now()
	defer func() {
		service.logger.Info(fmt.Sprintf("done in %v", time.Since(start).String()))
	}()
	return service.builder.Build(ctx, BuildRequest{
		Ref:        service.config.Ref(),
		Dockerfile: service.config.Dockerfile,
		Context:    service.config.BuildContext,
		Platforms:  service.config.Platforms,
		Builder:    service.config.BuilderName,
		Push:       true,
	})
}

func (service image) BuildLocal(ctx context.Context) error {
	err := service.config.Validate()
	if err != nil {
		return err
	}
	service.logger.Info(fmt.Sprintf("start local build of \"%v\"...", service.config.Ref()))
	start := time.Now()
	defer func() {
		service.logger.Info(fmt.Sprintf("done in %v", time.Since(start).String()))
	}()
	return service.builder.Build(ctx, BuildRequest{
		Ref:        service.config.Ref(),
		Dockerfile: service.config.Dockerfile,
		Context:    service.config.BuildContext,
	})
}

func (service image) Run(ctx context.Context) error {
	credentials, err := service.credentials()
	if err != nil {
		return err
	}
	service.logger.Info(fmt.Sprintf("run \"%v\" on port %v", service.config.Ref(), service.config.Port))
	return service.runtime.Run(ctx, RunOptions{
		Ref:  service.config.Ref(),
		Port: service.config.Port,
		Env:  credentials.Env(),
	})
}

func (service image) Shell(ctx context.Context) error {
	credentials, err := service.credentials()
	if err != nil {
		return err
	}
	service.logger.Info(fmt.Sprintf("start shell in \"%v\"", service.config.Ref()))
	return service.runtime.Shell(ctx, RunOptions{
		Ref: service.config.Ref(),
		Env: credentials.Env(),
	})
}

func (service image) Test(ctx context.Context) error {
	return service.testRunner.Run(ctx)
}

// Clean removes the locally tagged image. A missing image is not an
// error, so repeated invocation is always safe.
func (service image) Clean(ctx context.Context) error {
	err := service.runtime.RemoveImage(ctx, service.config.Ref())
	if err != nil {
		service.logger.Debug(fmt.Sprintf("skip remove image \"%v\": %v", service.config.Ref(), err))
	}
	return nil
}

// EnsureBuilder creates the builder instance only if it does not exist.
func (service image) EnsureBuilder(ctx context.Context) error {
	exist, err := service.builderProvider.Exist(ctx, service.config.BuilderName)
	if err != nil {
		return err
	}
	if exist {
		service.logger.Debug(fmt.Sprintf("builder \"%v\" already exists", service.config.BuilderName))
		return nil
	}
	service.logger.Info(fmt.Sprintf("create builder \"%v\"...", service.config.BuilderName))
	return service.builderProvider.Create(ctx, service.config.BuilderName, service.config.Platforms)
}

// CleanBuilder removes the builder instance, ignoring absence.
func (service image) CleanBuilder(ctx context.Context) error {
	err := service.builderProvider.Remove(ctx, service.config.BuilderName)
	if err != nil {
		service.logger.Debug(fmt.Sprintf("skip remove builder \"%v\": %v", service.config.BuilderName, err))
	}
	return nil
}

func (service image) credentials() (model.Credentials, error) {
	credentials := model.Credentials{
		URL:         service.lookupEnv(model.EnvJFrogURL),
		AccessToken: service.lookupEnv(model.EnvJFrogAccessToken),
	}
	err := credentials.Validate()
	if err != nil {
		return model.Credentials{}, err
	}
	return credentials, nil
}

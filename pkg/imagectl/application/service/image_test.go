package service_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tss-calculator/go-lib/pkg/infrastructure/logger"

	"github.com/mcp-jfrog/tools/pkg/imagectl/application/model"
	"github.com/mcp-jfrog/tools/pkg/imagectl/application/service"
)

type fakeBuilder struct {
	requests []service.BuildRequest
	err      error
}

func (f *fakeBuilder) Build(_ context.Context, request service.BuildRequest) error {
	f.requests = append(f.requests, request)
	return f.err
}

type fakeBuilderProvider struct {
	exists    bool
	existErr  error
	createErr error
	removeErr error
	created   []string
	removed   []string
}

func (f *fakeBuilderProvider) Exist(_ context.Context, _ string) (bool, error) {
	return f.exists, f.existErr
}

func (f *fakeBuilderProvider) Create(_ context.Context, name string, _ []string) error {
	f.created = append(f.created, name)
	return f.createErr
}

func (f *fakeBuilderProvider) Remove(_ context.Context, name string) error {
	f.removed = append(f.removed, name)
	return f.removeErr
}

type fakeRuntime struct {
	runs      []service.RunOptions
	shells    []service.RunOptions
	removed   []string
	removeErr error
}

func (f *fakeRuntime) Run(_ context.Context, options service.RunOptions) error {
	f.runs = append(f.runs, options)
	return nil
}

func (f *fakeRuntime) Shell(_ context.Context, options service.RunOptions) error {
	f.shells = append(f.shells, options)
	return nil
}

func (f *fakeRuntime) RemoveImage(_ context.Context, ref string) error {
	f.removed = append(f.removed, ref)
	return f.removeErr
}

type fakeTestRunner struct {
	runs int
	err  error
}

func (f *fakeTestRunner) Run(_ context.Context) error {
	f.runs++
	return f.err
}

type fixture struct {
	config          model.Image
	builder         *fakeBuilder
	builderProvider *fakeBuilderProvider
	runtime         *fakeRuntime
	testRunner      *fakeTestRunner
	env             map[string]string
	image           service.Image
}

func newFixture(env map[string]string) *fixture {
	f := &fixture{
		config:          model.DefaultImage(),
		builder:         &fakeBuilder{},
		builderProvider: &fakeBuilderProvider{},
		runtime:         &fakeRuntime{},
		testRunner:      &fakeTestRunner{},
		env:             env,
	}
	f.image = service.NewImageService(
		f.config,
		logger.NewTextLogger(),
		f.builder,
		f.builderProvider,
		f.runtime,
		f.testRunner,
		func(key string) string { return f.env[key] },
	)
	return f
}

func jfrogEnv() map[string]string {
	return map[string]string{
		model.EnvJFrogURL:         "https://example.jfrog.io",
		model.EnvJFrogAccessToken: "token",
	}
}

func TestBuildAndPushEnsuresBuilderAndPushes(t *testing.T) {
	f := newFixture(nil)
	require.NoError(t, f.image.BuildAndPush(context.Background()))

	assert.Equal(t, []string{model.BuilderName}, f.builderProvider.created)
	require.Len(t, f.builder.requests, 1)
	request := f.builder.requests[0]
	assert.Equal(t, f.config.Ref(), request.Ref)
	assert.Equal(t, f.config.Platforms, request.Platforms)
	assert.Equal(t, model.BuilderName, request.Builder)
	assert.True(t, request.Push)
}

func TestBuildAndPushSkipsExistingBuilder(t *testing.T) {
	f := newFixture(nil)
	f.builderProvider.exists = true
	require.NoError(t, f.image.BuildAndPush(context.Background()))
	assert.Empty(t, f.builderProvider.created)
}

func TestBuildFailurePropagates(t *testing.T) {
	f := newFixture(nil)
	f.builder.err = errors.New("buildx failed")
	err := f.image.BuildAndPush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buildx failed")
}

func TestBuildLocalTargetsHostArchitecture(t *testing.T) {
	f := newFixture(nil)
	require.NoError(t, f.image.BuildLocal(context.Background()))

	assert.Empty(t, f.builderProvider.created)
	require.Len(t, f.builder.requests, 1)
	request := f.builder.requests[0]
	assert.Equal(t, f.config.Ref(), request.Ref)
	assert.Empty(t, request.Platforms)
	assert.Empty(t, request.Builder)
	assert.False(t, request.Push)
}

func TestRunRequiresCredentials(t *testing.T) {
	f := newFixture(nil)
	err := f.image.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.EnvJFrogURL)
	assert.Contains(t, err.Error(), model.EnvJFrogAccessToken)
	assert.Empty(t, f.runtime.runs, "runtime must not be invoked without credentials")
}

func TestRunRejectsEmptyCredentialValues(t *testing.T) {
	env := jfrogEnv()
	env[model.EnvJFrogAccessToken] = ""
	f := newFixture(env)
	err := f.image.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.EnvJFrogAccessToken)
	assert.Empty(t, f.runtime.runs)
}

func TestRunForwardsPortAndCredentials(t *testing.T) {
	f := newFixture(jfrogEnv())
	require.NoError(t, f.image.Run(context.Background()))

	require.Len(t, f.runtime.runs, 1)
	options := f.runtime.runs[0]
	assert.Equal(t, f.config.Ref(), options.Ref)
	assert.Equal(t, f.config.Port, options.Port)
	assert.Equal(t, jfrogEnv(), options.Env)
}

func TestShellRequiresCredentials(t *testing.T) {
	f := newFixture(map[string]string{model.EnvJFrogURL: "https://example.jfrog.io"})
	err := f.image.Shell(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), model.EnvJFrogAccessToken)
	assert.Empty(t, f.runtime.shells)
}

func TestShellForwardsCredentials(t *testing.T) {
	f := newFixture(jfrogEnv())
	require.NoError(t, f.image.Shell(context.Background()))

	require.Len(t, f.runtime.shells, 1)
	assert.Equal(t, f.config.Ref(), f.runtime.shells[0].Ref)
	assert.Equal(t, jfrogEnv(), f.runtime.shells[0].Env)
}

func TestTestDelegatesToRunner(t *testing.T) {
	f := newFixture(nil)
	require.NoError(t, f.image.Test(context.Background()))
	assert.Equal(t, 1, f.testRunner.runs)

	f.testRunner.err = errors.New("tests failed")
	require.Error(t, f.image.Test(context.Background()))
}

func TestCleanIgnoresMissingImage(t *testing.T) {
	f := newFixture(nil)
	f.runtime.removeErr = errors.New("no such image")
	assert.NoError(t, f.image.Clean(context.Background()))
	assert.Equal(t, []string{f.config.Ref()}, f.runtime.removed)
}

func TestCleanBuilderIgnoresMissingBuilder(t *testing.T) {
	f := newFixture(nil)
	f.builderProvider.removeErr = errors.New("no builder found")
	assert.NoError(t, f.image.CleanBuilder(context.Background()))
	assert.Equal(t, []string{model.BuilderName}, f.builderProvider.removed)
}

func TestEnsureBuilderCreatesAbsentBuilder(t *testing.T) {
	f := newFixture(nil)
	require.NoError(t, f.image.EnsureBuilder(context.Background()))
	assert.Equal(t, []string{model.BuilderName}, f.builderProvider.created)
}

func TestEnsureBuilderIsIdempotent(t *testing.T) {
	f := newFixture(nil)
	f.builderProvider.exists = true
	require.NoError(t, f.image.EnsureBuilder(context.Background()))
	assert.Empty(t, f.builderProvider.created)
}

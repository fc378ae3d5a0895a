package testtool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/mcp-jfrog/tools/pkg/imagectl/application/model"
	"github.com/mcp-jfrog/tools/pkg/imagectl/application/service"
	"github.com/mcp-jfrog/tools/pkg/imagectl/infrastructure/command"
)

// NewRunner delegates the test shortcut to the configured external test
// runner, propagating its exit status.
func NewRunner(logger applogger.Logger, runner command.Runner, test model.Command) service.TestRunner {
	return &testRunner{
		logger: logger,
		runner: runner,
		test:   test,
	}
}

type testRunner struct {
	logger applogger.Logger
	runner command.Runner
	test   model.Command
}

func (r testRunner) Run(ctx context.Context) error {
	r.logger.Info(fmt.Sprintf("start tests \"%v %v\"...", r.test.Executable, strings.Join(r.test.Args, " ")))
	start := time.Now()
	defer func() {
		r.logger.Info(fmt.Sprintf("done in %v", time.Since(start).String()))
	}()
	_, err := r.runner.Execute(ctx, command.Command{
		Executable: r.test.Executable,
		Args:       r.test.Args,
		Verbose:    true,
	})
	return errors.Wrap(err, "failed to run tests")
}

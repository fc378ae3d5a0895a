package command

import (
	"context"
	"errors"
	"os"
	"os/exec"

	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"
)

type Command struct {
	WorkDir    string
	Executable string
	Args       []string
	// Env is appended to the inherited process environment.
	Env map[string]string
	// Verbose streams the command output to the caller's stdio instead
	// of capturing it.
	Verbose bool
	// Interactive additionally attaches stdin. Implies Verbose.
	Interactive bool
}

type Runner interface {
	Execute(ctx context.Context, command Command) (string, error)
}

func NewCommandRunner(logger applogger.Logger) Runner {
	return &runner{
		logger: logger,
	}
}

type runner struct {
	logger applogger.Logger
}

func (r runner) Execute(ctx context.Context, command Command) (string, error) {
	if command.Executable == "" {
		return "", errors.New("command executable can not be empty")
	}
	// nolint:gosec
	cmd := exec.CommandContext(ctx, command.Executable, command.Args...)
	cmd.Dir = command.WorkDir
	cmd.Env = os.Environ()
	for key, value := range command.Env {
		cmd.Env = append(cmd.Env, key+"="+value)
	}
	r.logger.Debug(cmd.String())
	if command.Interactive {
		cmd.Stdin = os.Stdin
	}
	if command.Verbose || command.Interactive {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return "", cmd.Run()
	}
	result, err := cmd.CombinedOutput()
	return string(result), err
}

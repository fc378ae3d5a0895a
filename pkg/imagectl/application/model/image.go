package model

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

type Command struct {
	Executable string
	Args       []string
}

// Image describes the single application image this tool manages.
type Image struct {
	Registry     string
	Name         string
	Version      string
	Platforms    []string
	BuilderName  string
	Dockerfile   string
	BuildContext string
	Port         int
	Test         Command
}

const (
	DefaultRegistry     = "registry.example.com"
	DefaultName         = "mcp-jfrog"
	DefaultVersion      = "0.0.1"
	DefaultDockerfile   = "Dockerfile"
	DefaultBuildContext = "."
	DefaultPort         = 8080

	// BuilderName is the reusable buildx builder instance. It is shared
	// across invocations and is not configurable.
	BuilderName = "mcp-jfrog-builder"
)

func DefaultPlatforms() []string {
	return []string{"linux/amd64", "linux/arm64"}
}

func DefaultTestCommand() Command {
	return Command{Executable: "npm", Args: []string{"test"}}
}

func DefaultImage() Image {
	return Image{
		Registry:     DefaultRegistry,
		Name:         DefaultName,
		Version:      DefaultVersion,
		Platforms:    DefaultPlatforms(),
		BuilderName:  BuilderName,
		Dockerfile:   DefaultDockerfile,
		BuildContext: DefaultBuildContext,
		Port:         DefaultPort,
		Test:         DefaultTestCommand(),
	}
}

// Ref builds the fully-qualified repo:tag string used by build, push,
// run and clean.
func (image Image) Ref() string {
	return fmt.Sprintf("%v/%v:%v", strings.TrimRight(image.Registry, "/"), image.Name, image.Version)
}

func (image Image) Validate() error {
	ref, err := reference.ParseNormalizedNamed(image.Ref())
	if err != nil {
		return fmt.Errorf("invalid image reference %q: %w", image.Ref(), err)
	}
	if _, tagged := ref.(reference.Tagged); !tagged {
		return fmt.Errorf("image reference %q has no version tag", image.Ref())
	}
	if len(image.Platforms) == 0 {
		return fmt.Errorf("platform list for image %q is empty", image.Ref())
	}
	if image.Port <= 0 {
		return fmt.Errorf("port for image %q must be positive, got %v", image.Ref(), image.Port)
	}
	return nil
}

package imageconfig

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mcp-jfrog/tools/pkg/imagectl/application/model"
)

type Command struct {
	Executable string   `json:"executable"`
	Args       []string `json:"args"`
}

type Config struct {
	Registry     string   `json:"registry,omitempty"`
	Name         string   `json:"name,omitempty"`
	Version      string   `json:"version,omitempty"`
	Platforms    []string `json:"platforms,omitempty"`
	Dockerfile   string   `json:"dockerFile,omitempty"`
	BuildContext string   `json:"context,omitempty"`
	Port         int      `json:"port,omitempty"`
	Test         *Command `json:"test,omitempty"`
}

// Load builds the image configuration from defaults, an optional JSON
// config file and IMAGECTL_* environment overrides, in that order. A
// missing config file is fine because every setting has a default.
func Load(filePath string) (model.Image, error) {
	image := model.DefaultImage()
	configBody, err := os.ReadFile(filePath)
	if err != nil && !os.IsNotExist(err) {
		return model.Image{}, errors.Wrapf(err, "failed to read config file: %v", filePath)
	}
	if err == nil {
		var config Config
		err = json.Unmarshal(configBody, &config)
		if err != nil {
			return model.Image{}, errors.Wrap(err, "failed to unmarshal config")
		}
		applyConfig(&image, config)
	}
	applyEnv(&image)
	return image, nil
}

func applyConfig(image *model.Image, config Config) {
	if config.Registry != "" {
		image.Registry = config.Registry
	}
	if config.Name != "" {
		image.Name = config.Name
	}
	if config.Version != "" {
		image.Version = config.Version
	}
	if len(config.Platforms) > 0 {
		image.Platforms = config.Platforms
	}
	if config.Dockerfile != "" {
		image.Dockerfile = config.Dockerfile
	}
	if config.BuildContext != "" {
		image.BuildContext = config.BuildContext
	}
	if config.Port > 0 {
		image.Port = config.Port
	}
	if config.Test != nil {
		image.Test = model.Command{
			Executable: config.Test.Executable,
			Args:       config.Test.Args,
		}
	}
}

func applyEnv(image *model.Image) {
	image.Registry = getenv("IMAGECTL_REGISTRY", image.Registry)
	image.Name = getenv("IMAGECTL_IMAGE_NAME", image.Name)
	image.Version = getenv("IMAGECTL_VERSION", image.Version)
	image.Dockerfile = getenv("IMAGECTL_DOCKERFILE", image.Dockerfile)
	image.BuildContext = getenv("IMAGECTL_BUILD_CONTEXT", image.BuildContext)
	if value := os.Getenv("IMAGECTL_PLATFORMS"); value != "" {
		image.Platforms = splitPlatforms(value)
	}
	if value := os.Getenv("IMAGECTL_PORT"); value != "" {
		if port, err := strconv.Atoi(value); err == nil && port > 0 {
			image.Port = port
		}
	}
}

func splitPlatforms(value string) []string {
	parts := strings.Split(value, ",")
	platforms := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			platforms = append(platforms, part)
		}
	}
	return platforms
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

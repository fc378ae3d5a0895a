package model

import (
	"fmt"
	"strings"
)

const (
	EnvJFrogURL         = "JFROG_URL"
	EnvJFrogAccessToken = "JFROG_ACCESS_TOKEN"
)

// Credentials carry the JFrog connection settings the containerized
// application needs. They are consumed verbatim, never transformed.
type Credentials struct {
	URL         string
	AccessToken string
}

func (credentials Credentials) Validate() error {
	missing := make([]string, 0, 2)
	if strings.TrimSpace(credentials.URL) == "" {
		missing = append(missing, EnvJFrogURL)
	}
	if strings.TrimSpace(credentials.AccessToken) == "" {
		missing = append(missing, EnvJFrogAccessToken)
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variable(s) not set or empty: %v", strings.Join(missing, ", "))
	}
	return nil
}

// Env returns the environment passed into the container.
func (credentials Credentials) Env() map[string]string {
	return map[string]string{
		EnvJFrogURL:         credentials.URL,
		EnvJFrogAccessToken: credentials.AccessToken,
	}
}

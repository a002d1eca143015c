package access

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppConfig is loaded from environment variables using the
// github.com/caarlos0/env library. It satisfies Config.
type AppConfig struct {
	// AuthBaseURL is the hosted auth provider endpoint.
	AuthBaseURL string `env:"ACCESS_AUTH_BASE_URL"`

	// AuthAPIKey is the provider's public API key, sent with every request.
	AuthAPIKey string `env:"ACCESS_AUTH_API_KEY"`

	// LoginRoute is where denied visitors are redirected.
	LoginRoute string `env:"ACCESS_LOGIN_ROUTE" envDefault:"/login"`

	// DefaultRedirect is where authenticated visitors land after login.
	DefaultRedirect string `env:"ACCESS_DEFAULT_REDIRECT" envDefault:"/"`
}

var _ Config = (*AppConfig)(nil)

func (c *AppConfig) GetAuthBaseURL() string {
	return c.AuthBaseURL
}

func (c *AppConfig) GetAuthAPIKey() string {
	return c.AuthAPIKey
}

func (c *AppConfig) GetLoginRoute() string {
	return c.LoginRoute
}

func (c *AppConfig) GetDefaultRedirect() string {
	return c.DefaultRedirect
}

// LoadConfig reads optional dotenv files and then the environment. Missing
// dotenv files are not an error; a missing variable falls back to its
// default.
func LoadConfig(files ...string) (*AppConfig, error) {
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, err
		}
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

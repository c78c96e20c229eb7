package config

import (
	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	StorageConfig
	PricingConfig
	TransportConfig
}

type EnvConfig interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetLogLevel() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Storage
	Pricing
	Transport
}

// New loads an optional .env file from the working directory and returns
// a Config that reads the process environment.
func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}

// NewFromFiles loads the given env files, without overriding variables that are
// already set, and returns a Config that reads the process environment.
func NewFromFiles(filenames ...string) (Config, error) {
	if err := godotenv.Load(filenames...); err != nil {
		return nil, err
	}
	return mainConfig{}, nil
}

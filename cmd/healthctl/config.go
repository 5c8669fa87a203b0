package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is read from environment variables with the prefix "HEALTHCTL_".
// Example: HEALTHCTL_API_URL=http://localhost:8080 HEALTHCTL_USER_ID=3 .
type Config struct {
	APIURL   string        `envconfig:"API_URL"   default:"http://localhost:8080"`
	UserID   int64         `envconfig:"USER_ID"   default:"0"`
	Timeout  time.Duration `envconfig:"TIMEOUT"   default:"30s"`
	LogLevel string        `envconfig:"LOG_LEVEL" default:"warn"`
}

// LoadConfig populates Config from the environment
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("HEALTHCTL", &c)
}

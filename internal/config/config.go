package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config collects the environment-provided settings of all binaries. Each
// binary checks only the variables it needs with Check.
type Config struct {
	TableName       string
	ProjectBucket   string
	OutputBucket    string
	OutputPrefix    string
	LanguageCode    string
	MediaFormats    []string
	DispatchTimeout time.Duration
	EmailQueueURL   string
	UserPool        string
	SendingAddress  string
	JWKSURL         string
	Port            string

	raw map[string]string
}

var names = []string{
	"TABLE_NAME", "PROJECT_BUCKET", "OUTPUT_BUCKET", "OUTPUT_PREFIX",
	"LANGUAGE_CODE", "MEDIA_FORMATS", "DISPATCH_TIMEOUT",
	"EMAIL_QUEUE_URL", "USER_POOL", "SENDING_ADDRESS", "JWKS_URL", "PORT",
}

// Load reads the environment, with an optional .env overlay for local runs.
func Load() (*Config, error) {
	_ = godotenv.Load()

	raw := make(map[string]string, len(names))
	for _, n := range names {
		raw[n] = os.Getenv(n)
	}
	c := &Config{
		TableName:      raw["TABLE_NAME"],
		ProjectBucket:  raw["PROJECT_BUCKET"],
		OutputBucket:   raw["OUTPUT_BUCKET"],
		OutputPrefix:   raw["OUTPUT_PREFIX"],
		LanguageCode:   raw["LANGUAGE_CODE"],
		EmailQueueURL:  raw["EMAIL_QUEUE_URL"],
		UserPool:       raw["USER_POOL"],
		SendingAddress: raw["SENDING_ADDRESS"],
		JWKSURL:        raw["JWKS_URL"],
		Port:           raw["PORT"],
		raw:            raw,
	}
	if f := raw["MEDIA_FORMATS"]; f != "" {
		for _, s := range strings.Split(f, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.MediaFormats = append(c.MediaFormats, s)
			}
		}
	}
	if t := raw["DISPATCH_TIMEOUT"]; t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return nil, errors.Wrapf(err, "wrong DISPATCH_TIMEOUT '%s'", t)
		}
		c.DispatchTimeout = d
	}
	return c, nil
}

// Check fails when any of the named variables was empty at load time.
func (c *Config) Check(required ...string) error {
	for _, n := range required {
		if c.raw[n] == "" {
			return errors.Errorf("missing required environment variable %s", n)
		}
	}
	return nil
}

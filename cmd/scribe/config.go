package main

import (
	"encoding/json"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is the CLI's JSON configuration file, with an optional .env
// overlay for the credentials.
type Config struct {
	Api      string `json:"api"`
	ApiKey   string `json:"api_key"`
	Bucket   string `json:"bucket"`
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

// LoadConfiguration reads the configuration file.
func LoadConfiguration(file string) (Config, error) {
	var config Config
	f, err := os.Open(file)
	if err != nil {
		return config, errors.Wrapf(err, "can't open '%s'", file)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&config); err != nil {
		return config, errors.Wrapf(err, "can't parse '%s'", file)
	}

	_ = godotenv.Load()
	if v := os.Getenv("SCRIBE_USER"); v != "" {
		config.UserName = v
	}
	if v := os.Getenv("SCRIBE_PASSWORD"); v != "" {
		config.Password = v
	}
	return config, nil
}

package kv

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config describes where and how progress is persisted.
type Config interface {
	BasePath() string
	Engine() string
}

// LoadConfig reads `.livedex.yaml` (from $LIVEDEX_CONFIG_PATH or the working
// directory), a local `.env`, and LIVEDEX_* environment variables.
func LoadConfig() (Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	viper.SetDefault("path", "~/.livedex.db")
	viper.SetDefault("engine", EngineDisk)
	viper.SetDefault("game", "home")
	viper.SetDefault("pokeapi.url", "https://pokeapi.co/api/v2")
	viper.SetDefault("pokeapi.timeout", "15s")
	viper.SetDefault("pokeapi.retries", 2)
	viper.SetDefault("pokeapi.rate", "100-M")
	viper.SetDefault("names.concurrency", 10)
	viper.SetDefault("log.level", "info")
	viper.SetConfigName(".livedex") // .yaml is implicit
	viper.SetEnvPrefix("LIVEDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("LIVEDEX_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(viper.GetString("path"))
	if err != nil {
		return nil, err
	}
	return &fileConfig{Path: path, StoreEngine: viper.GetString("engine")}, nil
}

type fileConfig struct {
	Path        string `json:"path"`
	StoreEngine string `json:"engine"`
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Engine() string {
	return f.StoreEngine
}

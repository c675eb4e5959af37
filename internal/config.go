package internal

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/keepr/mediakit/internal/api"
	"github.com/keepr/mediakit/internal/ffmpeg"
	"github.com/keepr/mediakit/internal/instagram"
	"github.com/keepr/mediakit/internal/speed"
	"github.com/mitchellh/go-homedir"
)

type (
	// Config is the complete configuration for the CLI and the HTTP gateway. It
	// is populated from an optional YAML file, with environment variables
	// (including any found in a .env file) taking precedence.
	Config struct {
		LogLevel  string           `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=verbose debug info success warning warn error fatal"`
		Render    RenderConfig     `yaml:"render"`
		Instagram instagram.Config `yaml:"instagram"`
		API       api.RestConfig   `yaml:"api"`
	}

	// RenderConfig groups the media engine location with the output
	// options of the speed transform.
	RenderConfig struct {
		Engine    ffmpeg.Config `yaml:"engine"`
		Transform speed.Config  `yaml:"transform"`

		// KeepExisting refuses to replace a file already present at the
		// output path. Replacing is the default.
		KeepExisting bool `yaml:"keep_existing" env:"RENDER_KEEP_EXISTING"`
	}
)

// SpeedConfig returns the transform options with the overwrite behaviour
// resolved.
func (config *RenderConfig) SpeedConfig() speed.Config {
	out := config.Transform
	out.Overwrite = !config.KeepExisting
	return out
}

// LoadConfig loads the configuration. An empty configPath reads only the
// environment. A missing .env file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	if configPath != "" {
		path, err := homedir.Expand(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path %s: %w", configPath, err)
		}

		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment: %w", err)
	}

	if err := config.expandPaths(); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("configuration is invalid: %w", err)
	}

	return config, nil
}

func (config *Config) expandPaths() error {
	for _, path := range []*string{
		&config.Render.Engine.FfmpegBinPath,
		&config.Render.Engine.FfprobeBinPath,
		&config.Render.Transform.TempDir,
		&config.Instagram.BrowserBinPath,
	} {
		expanded, err := homedir.Expand(*path)
		if err != nil {
			return fmt.Errorf("failed to expand path %s: %w", *path, err)
		}

		*path = expanded
	}

	return nil
}

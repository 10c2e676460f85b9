package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "tasklist.yaml"

// Config represents the full tasklist configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// ServerConfig configures the web server
type ServerConfig struct {
	Port string `yaml:"port" mapstructure:"port"`
}

// StorageConfig configures the local key-value store
type StorageConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
	Key  string `yaml:"key" mapstructure:"key"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Storage: StorageConfig{
			Path: "./data/tasklist.db",
			Key:  "tasks",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// the environment, in increasing order of precedence. A .env file in the
// working directory is loaded into the environment first. An empty path
// reads DefaultFile when it exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	defaults := DefaultConfig()
	v := viper.New()
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("storage.path", defaults.Storage.Path)
	v.SetDefault("storage.key", defaults.Storage.Key)

	// PORT and DB_PATH are accepted for compatibility with older deployments.
	_ = v.BindEnv("server.port", "TASKLIST_PORT", "PORT")
	_ = v.BindEnv("storage.path", "TASKLIST_DB_PATH", "DB_PATH")
	_ = v.BindEnv("storage.key", "TASKLIST_STORAGE_KEY")

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	if c.Storage.Path == "" {
		return errors.New("storage path is required")
	}
	if c.Storage.Key == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// YAML returns the configuration encoded as YAML.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteDefault writes a commented default configuration file
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	content := `# tasklist configuration
# Environment variables override this file:
#   TASKLIST_PORT, TASKLIST_DB_PATH, TASKLIST_STORAGE_KEY

server:
  port: "8080"

storage:
  # SQLite database holding the key-value table
  path: ./data/tasklist.db
  # Key the task list is stored under
  key: tasks
`
	return os.WriteFile(path, []byte(content), 0644)
}

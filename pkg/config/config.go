package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App    AppConfig    `yaml:"app"`
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Policy PolicyConfig `yaml:"policy"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

type ServerConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	HeartbeatSeconds int    `yaml:"heartbeat_seconds"`
}

type StoreConfig struct {
	DocsDir   string `yaml:"docs_dir"`
	IndexPath string `yaml:"index_path"`
}

type PolicyConfig struct {
	DeniedOperations []string `yaml:"denied_operations"`
	DeniedPatterns   []string `yaml:"denied_patterns"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		App: AppConfig{Name: "quill"},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			HeartbeatSeconds: 30,
		},
		Store: StoreConfig{
			DocsDir:   "documents",
			IndexPath: "quill.db",
		},
		Policy: PolicyConfig{
			DeniedPatterns: []string{`\.\.`},
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is
// not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	return cfg, nil
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *ServerConfig) Heartbeat() time.Duration {
	if c.HeartbeatSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.HeartbeatSeconds) * time.Second
}

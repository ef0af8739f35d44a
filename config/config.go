package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/WS-QA/OSSGadget/module/registry/types"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultUserAgent   = "oss-download"
	DefaultDownloadDir = "."
	DefaultTimeout     = 60 * time.Second
	DefaultRetryMax    = 2
)

// EndpointEnv maps each backend to the environment variable overriding its
// endpoint.
var EndpointEnv = map[types.RegistryType]string{
	types.CRAN:   "ENV_CRAN_ENDPOINT",
	types.MAVEN:  "ENV_MAVEN_ENDPOINT",
	types.NPM:    "ENV_NPM_ENDPOINT",
	types.PYPI:   "ENV_PYPI_ENDPOINT",
	types.GOLANG: "ENV_GO_PROXY_ENDPOINT",
}

// Config represents the top-level configuration structure
type Config struct {
	Version    string                 `yaml:"version" toml:"version"`
	HTTP       HTTPConfig             `yaml:"http" toml:"http"`
	Registries []types.RegistryConfig `yaml:"registries" toml:"registries"`
	Download   DownloadConfig         `yaml:"download" toml:"download"`
}

// HTTPConfig tunes the outbound client shared by all registries
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" toml:"timeout"`
	RetryMax  int           `yaml:"retryMax" toml:"retryMax"`
	UserAgent string        `yaml:"userAgent" toml:"userAgent"`
	Insecure  bool          `yaml:"insecure" toml:"insecure"`
}

// DownloadConfig holds the defaults of the download command
type DownloadConfig struct {
	Directory   string `yaml:"directory" toml:"directory"`
	Extract     bool   `yaml:"extract" toml:"extract"`
	Concurrency int    `yaml:"concurrency" toml:"concurrency"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Version: "1",
		HTTP: HTTPConfig{
			Timeout:   DefaultTimeout,
			RetryMax:  DefaultRetryMax,
			UserAgent: DefaultUserAgent,
		},
		Download: DownloadConfig{Directory: DefaultDownloadDir},
	}
}

// LoadConfig loads the configuration from a file. Files ending in .toml are
// read as TOML, anything else as YAML. An empty path yields the defaults.
// Endpoint environment variables are applied last.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		// Expand environment variables in the file
		expanded := os.Expand(string(data), os.Getenv)

		if strings.EqualFold(filepath.Ext(path), ".toml") {
			_, err = toml.Decode(expanded, config)
		} else {
			err = yaml.Unmarshal([]byte(expanded), config)
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	config.applyEnv()

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	for t, key := range EndpointEnv {
		endpoint := os.Getenv(key)
		if endpoint == "" {
			continue
		}
		if i := c.index(t); i >= 0 {
			c.Registries[i].Endpoint = endpoint
			continue
		}
		c.Registries = append(c.Registries, types.RegistryConfig{Type: t, Endpoint: endpoint})
	}
}

func (c *Config) index(t types.RegistryType) int {
	for i, r := range c.Registries {
		if types.RegistryType(strings.ToLower(string(r.Type))) == t {
			return i
		}
	}
	return -1
}

// Registry returns the configuration of backend t. The zero value, apart
// from Type, means the backend defaults.
func (c *Config) Registry(t types.RegistryType) types.RegistryConfig {
	if i := c.index(t); i >= 0 {
		r := c.Registries[i]
		r.Type = t
		return r
	}
	return types.RegistryConfig{Type: t}
}

// validateConfig performs basic validation on the configuration
func validateConfig(config *Config) error {
	if config.HTTP.Timeout < 0 {
		return fmt.Errorf("http timeout cannot be negative")
	}
	if config.HTTP.RetryMax < 0 {
		return fmt.Errorf("http retryMax cannot be negative")
	}
	if config.Download.Concurrency < 0 {
		return fmt.Errorf("download concurrency cannot be negative")
	}

	seen := map[types.RegistryType]bool{}
	for i, registry := range config.Registries {
		t := types.RegistryType(strings.ToLower(string(registry.Type)))
		if t == "" {
			return fmt.Errorf("registry %d: type cannot be empty", i)
		}
		if _, known := EndpointEnv[t]; !known {
			return fmt.Errorf("registry %d: unsupported registry type: %s", i, registry.Type)
		}
		if seen[t] {
			return fmt.Errorf("registry %d: %s is configured more than once", i, t)
		}
		seen[t] = true

		if err := validateRegistry(registry); err != nil {
			return fmt.Errorf("invalid %s registry block provided in config: %w", t, err)
		}
	}
	return nil
}

func validateRegistry(registry types.RegistryConfig) error {
	if registry.Endpoint != "" {
		u, err := url.Parse(strings.TrimSpace(registry.Endpoint))
		if err != nil {
			return fmt.Errorf("invalid endpoint: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint must be an absolute http(s) URL: %s", registry.Endpoint)
		}
	}

	hasToken := registry.Credentials.Token != ""
	hasUsername := registry.Credentials.Username != ""

	if hasToken && hasUsername {
		return fmt.Errorf("token and username authentication are mutually exclusive")
	}
	if hasUsername && registry.Credentials.Password == "" {
		return fmt.Errorf("password must be provided when using username authentication")
	}
	return nil
}

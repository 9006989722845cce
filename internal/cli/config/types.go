// Package config provides configuration management for the leapdocs CLI.
//
// Values are layered with koanf: built-in defaults, then a leapdocs.yaml (or
// leapdocs.yml) file, then LEAPDOCS_ environment variables, then explicitly
// set command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	// TargetPath is a local target directory or an http(s) base URL holding
	// manifest.json, catalog.json and optionally run_results.json.
	TargetPath   string       `koanf:"target_path"`
	Verbose      bool         `koanf:"verbose"`
	LogLevel     string       `koanf:"log_level"`
	OutputFormat string       `koanf:"output"`
	Server       ServerConfig `koanf:"server"`
	HTTP         HTTPConfig   `koanf:"http"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// ServerConfig holds configuration for the docs server.
type ServerConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// HTTPConfig configures fetching artifacts from a remote target.
type HTTPConfig struct {
	RetryMax int           `koanf:"retry_max"`
	Timeout  time.Duration `koanf:"timeout"`
}

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Default configuration values.
const (
	DefaultTargetPath  = "target"
	DefaultLogLevel    = "warn"
	DefaultOutput      = OutputText
	DefaultPort        = 8765
	DefaultRetryMax    = 3
	DefaultHTTPTimeout = 30 * time.Second
	EnvPrefix          = "LEAPDOCS_"
)

// ConfigFileNames are searched, in order, in the project root.
var ConfigFileNames = []string{"leapdocs.yaml", "leapdocs.yml"}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		TargetPath:   DefaultTargetPath,
		LogLevel:     DefaultLogLevel,
		OutputFormat: DefaultOutput,
		Server: ServerConfig{
			Port:  DefaultPort,
			Watch: false,
		},
		HTTP: HTTPConfig{
			RetryMax: DefaultRetryMax,
			Timeout:  DefaultHTTPTimeout,
		},
	}
}

// IsRemoteTarget reports whether the target is fetched over HTTP.
func (c *Config) IsRemoteTarget() bool {
	return isURL(c.TargetPath)
}

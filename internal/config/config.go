// Package config loads hierq settings from a YAML file, a .env file and HIERQ_*
// environment variables, in increasing order of precedence.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/toyz/hierq/internal/errors"
	"github.com/toyz/hierq/internal/utils"
)

// DefaultFile is read when no config path is given and the file exists
const DefaultFile = "hierq.yaml"

const envPrefix = "HIERQ_"

// Config holds the settings shared by the CLI and the HTTP inspector
type Config struct {
	// Models lists model documents, directories or dir/... patterns
	Models []string `yaml:"models"`

	// Namespace qualifies bare annotation names and managed annotation wrappers
	Namespace string `yaml:"namespace"`

	Output struct {
		Level  string `yaml:"level"`  // silent, error, warn, info, verbose, debug
		Color  string `yaml:"color"`  // auto, always, never
		Format string `yaml:"format"` // table, json, yaml, names
	} `yaml:"output"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Loader struct {
		// Strict rejects references to types that no document declares
		Strict bool `yaml:"strict"`
	} `yaml:"loader"`
}

// Default returns the built-in settings
func Default() *Config {
	cfg := &Config{Namespace: "hierq"}
	cfg.Output.Level = "info"
	cfg.Output.Color = "auto"
	cfg.Output.Format = "table"
	cfg.Server.Addr = ":8080"
	return cfg
}

// Load builds the configuration. An empty path falls back to DefaultFile when it
// exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	// a missing .env is not an error
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapConfigurationError(path, "read", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapConfigurationError(path, "parse", err).
				WithLocation(errors.SourceLocation{File: path})
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("MODELS"); ok {
		c.Models = splitList(v)
	}
	if v, ok := lookupEnv("NAMESPACE"); ok {
		c.Namespace = v
	}
	if v, ok := lookupEnv("OUTPUT_LEVEL"); ok {
		c.Output.Level = v
	}
	if v, ok := lookupEnv("OUTPUT_COLOR"); ok {
		c.Output.Color = v
	}
	if v, ok := lookupEnv("OUTPUT_FORMAT"); ok {
		c.Output.Format = v
	}
	if v, ok := lookupEnv("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := lookupEnv("LOADER_STRICT"); ok {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return errors.WrapConfigurationError(envPrefix+"LOADER_STRICT", "parse", err)
		}
		c.Loader.Strict = strict
	}
	return nil
}

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	errs := errors.NewMultipleErrors()
	check := func(err error) {
		if err != nil {
			errs.Add(errors.Wrap(errors.ConfigurationErrorCode, "invalid configuration", err))
		}
	}

	check(utils.ValidateEach("models", utils.NotEmpty("model"))(c.Models))
	check(utils.IsQualifiedName("namespace")(c.Namespace))
	if _, err := utils.ParseDiagnosticLevel(c.Output.Level); err != nil {
		check(utils.ValidationError{Field: "output.level", Value: c.Output.Level, Message: err.Error()})
	}
	check(utils.IsOneOf("output.color", "auto", "always", "never")(c.Output.Color))
	check(utils.IsOneOf("output.format", "table", "json", "yaml", "names")(c.Output.Format))
	check(utils.IsListenAddress("server.addr")(c.Server.Addr))

	return errs.ErrorOrNil()
}

// RequireModels fails when no model document is configured
func (c *Config) RequireModels() error {
	if err := utils.SliceNotEmpty[string]("models")(c.Models); err != nil {
		return errors.Wrap(errors.ConfigurationErrorCode, "no type model configured", err).
			WithSuggestion("pass --model, set models in " + DefaultFile + " or export " + envPrefix + "MODELS")
	}
	return nil
}

// Diagnostics creates the diagnostic system described by the output settings
func (c *Config) Diagnostics() *utils.DiagnosticSystem {
	level, err := utils.ParseDiagnosticLevel(c.Output.Level)
	if err != nil {
		level = utils.DiagnosticInfo
	}
	d := utils.NewDiagnosticSystem(level)
	switch c.Output.Color {
	case "always":
		d.SetColors(true)
	case "never":
		d.SetColors(false)
	}
	return d
}

// QualifyAnnotation prefixes a bare annotation name with the namespace
func (c *Config) QualifyAnnotation(name string) string {
	if name == "" || strings.Contains(name, ".") || c.Namespace == "" {
		return name
	}
	return c.Namespace + "." + name
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	return strings.TrimSpace(v), ok
}

func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

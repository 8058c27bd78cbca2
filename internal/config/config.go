package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

const (
	DefaultConfigFile = "apidocs.yaml"
	DefaultEnvFile    = ".env"

	// EnvPrefix marks variables that override config keys. A double
	// underscore separates nesting levels and a single underscore becomes a
	// dash: APIDOCS_EXAMPLES__CYCLE_STRATEGY sets examples.cycle-strategy.
	EnvPrefix = "APIDOCS_"

	// KeyAnnotation on a flag overrides the config key the flag sets.
	KeyAnnotation = "apidocs/config-key"
)

type Config struct {
	Spec        string         `koanf:"spec"`
	Output      string         `koanf:"output"`
	Format      string         `koanf:"format"`
	Title       string         `koanf:"title"`
	BaseURL     string         `koanf:"base-url"`
	Theme       string         `koanf:"theme"`
	Templates   TemplateConfig `koanf:"templates"`
	IncludeTags []string       `koanf:"include-tags"`
	ExcludeTags []string       `koanf:"exclude-tags"`
	Examples    ExamplesConfig `koanf:"examples"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

type ExamplesConfig struct {
	Format        string `koanf:"format"`
	CycleStrategy string `koanf:"cycle-strategy"`
	Branch        int    `koanf:"branch"`
}

var defaults = map[string]any{
	"format":                  "html",
	"theme":                   "dark",
	"examples.format":         "json",
	"examples.cycle-strategy": "structural",
	"examples.branch":         0,
}

// BindCommonFlags binds the flags shared by every command
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: apidocs.yaml)")
	flags.String("env-file", "", "Env file with APIDOCS_* overrides (default: .env)")
	flags.StringP("spec", "s", "", "OpenAPI document path")
	flags.String("templates", "", "Custom templates directory")
	flags.StringSlice("include-tags", nil, "Tags to include (exclusive)")
	flags.StringSlice("exclude-tags", nil, "Tags to exclude")
	flags.String("base-url", "", "Base URL used in snippets (default: first server)")
	flags.String("cycle-strategy", "", "Example cycle detection: structural, reference")
	flags.Int("branch", 0, "anyOf/oneOf branch index used for examples")
}

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	configFile := stringFlag(cmd, "config")
	if configFile == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			configFile = DefaultConfigFile
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	envMap, err := loadEnv(stringFlag(cmd, "env-file"))
	if err != nil {
		return nil, err
	}
	if len(envMap) > 0 {
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadEnv reads APIDOCS_* values from the env file, then from the process
// environment, which wins.
func loadEnv(envFile string) (map[string]any, error) {
	values := make(map[string]string)

	explicit := envFile != ""
	if !explicit {
		envFile = DefaultEnvFile
	}

	fileValues, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		for k, v := range fileValues {
			values[k] = v
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("reading env file: %w", err)
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, EnvPrefix) {
			values[k] = v
		}
	}

	m := make(map[string]any)
	for k, v := range values {
		key, ok := envKey(k)
		if !ok || v == "" {
			continue
		}
		if key == "include-tags" || key == "exclude-tags" {
			m[key] = splitList(v)
			continue
		}
		m[key] = v
	}
	return m, nil
}

func envKey(name string) (string, bool) {
	if !strings.HasPrefix(name, EnvPrefix) {
		return "", false
	}
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	if key == "" {
		return "", false
	}
	key = strings.ReplaceAll(key, "__", ".")
	return strings.ReplaceAll(key, "_", "-"), true
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func stringFlag(cmd *cobra.Command, name string) string {
	if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
		return v
	}
	if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
		return v
	}
	return ""
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	flagChanged := func(name string) bool {
		return cmd.Flags().Changed(name) || cmd.PersistentFlags().Changed(name)
	}

	getInt := func(name string) int {
		if v, err := cmd.Flags().GetInt(name); err == nil {
			return v
		}
		if v, err := cmd.PersistentFlags().GetInt(name); err == nil {
			return v
		}
		return 0
	}

	keyFor := func(name, fallback string) string {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.PersistentFlags().Lookup(name)
		}
		if flag != nil {
			if keys := flag.Annotations[KeyAnnotation]; len(keys) > 0 {
				return keys[0]
			}
		}
		return fallback
	}

	stringKeys := map[string]string{
		"spec":           "spec",
		"output":         "output",
		"format":         "format",
		"title":          "title",
		"theme":          "theme",
		"base-url":       "base-url",
		"templates":      "templates.dir",
		"cycle-strategy": "examples.cycle-strategy",
	}
	for name, key := range stringKeys {
		if v := stringFlag(cmd, name); v != "" {
			m[keyFor(name, key)] = v
		}
	}

	if v := getStringSlice("include-tags"); len(v) > 0 {
		m["include-tags"] = v
	}
	if v := getStringSlice("exclude-tags"); len(v) > 0 {
		m["exclude-tags"] = v
	}
	if flagChanged("branch") {
		m["examples.branch"] = getInt("branch")
	}

	return m
}

func (c *Config) Validate() error {
	if c.Spec == "" {
		return fmt.Errorf("spec file is required")
	}

	validFormats := map[string]bool{"html": true, "markdown": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (valid: html, markdown)", c.Format)
	}

	validThemes := map[string]bool{"": true, "dark": true, "light": true}
	if !validThemes[c.Theme] {
		return fmt.Errorf("invalid theme: %s (valid: dark, light)", c.Theme)
	}

	validExampleFormats := map[string]bool{"json": true, "yaml": true}
	if !validExampleFormats[c.Examples.Format] {
		return fmt.Errorf("invalid example format: %s (valid: json, yaml)", c.Examples.Format)
	}

	validCycleStrategies := map[string]bool{"structural": true, "reference": true}
	if !validCycleStrategies[c.Examples.CycleStrategy] {
		return fmt.Errorf("invalid cycle strategy: %s (valid: structural, reference)", c.Examples.CycleStrategy)
	}

	if c.Examples.Branch < 0 {
		return fmt.Errorf("invalid branch index: %d (must not be negative)", c.Examples.Branch)
	}

	return nil
}

// OutputPath is the configured output file, or a default name for the
// configured format.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	if c.Format == "markdown" {
		return "API.md"
	}
	return "index.html"
}

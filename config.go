package sitegen

import "github.com/goliatone/go-sitegen/internal/runtimeconfig"

// ConfigFileName is the site configuration file looked up in the site directory.
const ConfigFileName = "config.toml"

var (
	ErrBaseURLRequired      = runtimeconfig.ErrBaseURLRequired
	ErrBaseURLInvalid       = runtimeconfig.ErrBaseURLInvalid
	ErrLoggingLevelInvalid  = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	TaxonomyConfig  = runtimeconfig.TaxonomyConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	HighlightConfig = runtimeconfig.HighlightConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads and decodes a config.toml file.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}

// ParseConfig decodes config.toml text.
func ParseConfig(text string) (Config, error) {
	return runtimeconfig.Parse(text)
}

package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override the file,
// e.g. MDOCX_SERVICE_URL or MDOCX_OUTPUT_DIRECTORY.
const EnvPrefix = "MDOCX"

// overridable lists the keys that may come from flags or the environment.
var overridable = []string{
	"service.url",
	"service.probe_timeout",
	"intake.max_size",
	"output.directory",
	"output.collision",
	"templates.default",
	"inbox.directory",
	"inbox.pattern",
	"logging.debug",
	"logging.json",
	"theme.name",
}

// NewViper returns a viper instance bound to MDOCX_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range overridable {
		_ = v.BindEnv(key)
	}
	return v
}

// ApplyOverrides copies every key set in v over cfg and validates the result.
func ApplyOverrides(cfg *Config, v *viper.Viper) error {
	if v.IsSet("service.url") {
		cfg.Service.URL = v.GetString("service.url")
	}
	if v.IsSet("service.probe_timeout") {
		cfg.Service.ProbeTimeout = v.GetInt("service.probe_timeout")
	}
	if v.IsSet("intake.max_size") {
		cfg.Intake.MaxSize = v.GetInt64("intake.max_size")
	}
	if v.IsSet("output.directory") {
		cfg.Output.Directory = v.GetString("output.directory")
	}
	if v.IsSet("output.collision") {
		cfg.Output.Collision = v.GetString("output.collision")
	}
	if v.IsSet("templates.default") {
		cfg.Templates.Default = v.GetString("templates.default")
	}
	if v.IsSet("inbox.directory") {
		cfg.Inbox.Directory = v.GetString("inbox.directory")
	}
	if v.IsSet("inbox.pattern") {
		cfg.Inbox.Pattern = v.GetString("inbox.pattern")
	}
	if v.IsSet("logging.debug") {
		cfg.Logging.Debug = v.GetBool("logging.debug")
	}
	if v.IsSet("logging.json") {
		cfg.Logging.JSON = v.GetBool("logging.json")
	}
	if v.IsSet("theme.name") {
		cfg.ApplyTheme(v.GetString("theme.name"))
	}
	return cfg.Validate()
}

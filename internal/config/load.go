package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. GCECTL_PROJECT or GCECTL_TIMEOUTS_OPERATION_WAIT.
const EnvPrefix = "GCECTL"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"project":          "project",
	"zone":             "zone",
	"credentials-file": "credentials_file",
	"endpoint":         "endpoint",
	"output":           "output",
}

// Load resolves the configuration from, in increasing precedence: built-in
// defaults (see LoadTimeouts and LoadPaging), the YAML file at path when path
// is not empty, GCECTL_* environment variables, and the flags in flags that
// were set explicitly. The result is validated before it is returned.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("project", "")
	v.SetDefault("zone", "")
	v.SetDefault("credentials_file", "")
	v.SetDefault("endpoint", "")
	v.SetDefault("output", def.Output)
	v.SetDefault("timeouts.operation_wait", def.Timeouts.OperationWait)
	v.SetDefault("timeouts.poll_interval", def.Timeouts.PollInterval)
	v.SetDefault("paging.max_pages", def.Paging.MaxPages)
	v.SetDefault("paging.page_size", def.Paging.PageSize)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

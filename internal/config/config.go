package config

// Output formats understood by the list commands.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
	OutputJSON  = "json"
)

// Config is the resolved runtime configuration of gcectl.
type Config struct {
	Project         string   `mapstructure:"project" yaml:"project" validate:"required"`
	Zone            string   `mapstructure:"zone" yaml:"zone" validate:"required"`
	CredentialsFile string   `mapstructure:"credentials_file" yaml:"credentials_file,omitempty" validate:"omitempty,file"`
	Endpoint        string   `mapstructure:"endpoint" yaml:"endpoint,omitempty" validate:"omitempty,url"`
	Output          string   `mapstructure:"output" yaml:"output" validate:"oneof=table yaml json"`
	Timeouts        Timeouts `mapstructure:"timeouts" yaml:"timeouts"`
	Paging          Paging   `mapstructure:"paging" yaml:"paging"`
}

// Default returns a configuration with every optional setting filled in from
// the environment or the built-in defaults. Project and Zone are left empty.
func Default() *Config {
	return &Config{
		Output:   OutputTable,
		Timeouts: *LoadTimeouts(),
		Paging:   *LoadPaging(),
	}
}

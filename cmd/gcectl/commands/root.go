// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gcectl/cmd/gcectl/handlers"
	"github.com/imamik/gcectl/internal/config"
)

// globalFlags holds the persistent flags that are not configuration keys.
type globalFlags struct {
	configPath string
	verbosity  int
	assumeYes  bool
}

// session builds the handler session for cmd. cmd.Flags() includes the
// inherited persistent flags, which config.Load binds by name.
func (g *globalFlags) session(cmd *cobra.Command) handlers.Session {
	return handlers.Session{
		ConfigPath: g.configPath,
		Flags:      cmd.Flags(),
		Verbosity:  g.verbosity,
		AssumeYes:  g.assumeYes,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
	}
}

// Root returns the root command for the gcectl CLI.
func Root() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "gcectl",
		Short: "Create, inspect and delete Google Compute Engine resources",
		Long: `gcectl manages Compute Engine instances and disks in one project and zone.

Create requests are validated against the project before anything is
changed, and every mutating call waits for its operation to finish.

Settings are read, in increasing precedence, from the config file
(--config), GCECTL_* environment variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "", "Path to a YAML configuration file")
	pf.String("project", "", "Google Cloud project ID")
	pf.String("zone", "", "Compute Engine zone, e.g. us-central1-a")
	pf.String("credentials-file", "", "Service account key file (defaults to application default credentials)")
	pf.String("endpoint", "", "Override the Compute Engine API endpoint")
	pf.StringP("output", "o", config.OutputTable, "Output format: table, yaml or json")
	pf.CountVarP(&g.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	pf.BoolVarP(&g.assumeYes, "yes", "y", false, "Answer yes to confirmation prompts")

	cmd.AddCommand(Server(g))
	cmd.AddCommand(Disk(g))
	cmd.AddCommand(Zone(g))
	cmd.AddCommand(Region(g))
	cmd.AddCommand(Project(g))
	cmd.AddCommand(Version())

	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gcectl/cmd/gcectl/handlers"
)

// Zone returns the zone command group.
func Zone(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Inspect Compute Engine zones",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the zones available to the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ZoneList(cmd.Context(), g.session(cmd))
		},
	})
	return cmd
}

// Region returns the region command group.
func Region(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "region",
		Short: "Inspect Compute Engine regions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the regions available to the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.RegionList(cmd.Context(), g.session(cmd))
		},
	})
	return cmd
}

// Project returns the project command group.
func Project(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect the configured project",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "quotas",
		Short: "Show Compute Engine quotas with their limit and usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ProjectQuotas(cmd.Context(), g.session(cmd))
		},
	})
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gcectl/cmd/gcectl/handlers"
	"github.com/imamik/gcectl/internal/provisioning"
)

// Disk returns the disk command group.
func Disk(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "disk",
		Short: "Manage persistent disks",
	}

	cmd.AddCommand(diskCreate(g))
	cmd.AddCommand(diskDelete(g))
	cmd.AddCommand(diskList(g))

	return cmd
}

func diskCreate(g *globalFlags) *cobra.Command {
	var req provisioning.CreateDiskRequest

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a persistent disk and wait until it is ready",
		Long: `Create makes a blank persistent disk, or one initialized from --image.

Example:
  gcectl disk create data-1 --size 50 --type pd-ssd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			return handlers.DiskCreate(cmd.Context(), g.session(cmd), req)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&req.SizeGB, "size", provisioning.DefaultBootDiskSizeGB, "Disk size in GB")
	f.StringVar(&req.Type, "type", "pd-standard", "Disk type, e.g. pd-standard or pd-ssd")
	f.StringVar(&req.SourceImage, "image", "", "Image to initialize the disk from")
	f.StringVar(&req.ImageProject, "image-project", "", "Project hosting the image")

	return cmd
}

func diskDelete(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a persistent disk after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.DiskDelete(cmd.Context(), g.session(cmd), args[0])
		},
	}
}

func diskList(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persistent disks in the zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.DiskList(cmd.Context(), g.session(cmd))
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/gcectl/cmd/gcectl/handlers"
	"github.com/imamik/gcectl/internal/provisioning"
)

// Server returns the server command group.
func Server(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"instance"},
		Short:   "Manage Compute Engine instances",
	}

	cmd.AddCommand(serverCreate(g))
	cmd.AddCommand(serverDelete(g))
	cmd.AddCommand(serverList(g))

	return cmd
}

func serverCreate(g *globalFlags) *cobra.Command {
	var (
		req      provisioning.CreateInstanceRequest
		saEmail  string
		saScopes []string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an instance and wait until it is running",
		Long: `Create validates the machine type, network, public IP setting and image,
then creates the instance and waits until it reaches RUNNING.

The image is looked up in --image-project when given. Otherwise the current
project is searched first, then the public project matching the image name
(debian-cloud for debian-*, ubuntu-os-cloud for ubuntu-* and so on).

Example:
  gcectl server create web-1 --machine-type e2-small --image debian-12-bookworm-v20240110`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			if saEmail != "" || len(saScopes) > 0 {
				req.ServiceAccount = &provisioning.ServiceAccount{Email: saEmail, Scopes: saScopes}
			}
			return handlers.ServerCreate(cmd.Context(), g.session(cmd), req)
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.MachineType, "machine-type", "n1-standard-1", "Machine type")
	f.StringVar(&req.Network, "network", "default", "Network name")
	f.StringVar(&req.PublicIP, "public-ip", provisioning.PublicIPEphemeral, "Public IP: ephemeral, none or an address")
	f.StringVar(&req.Image, "image", "", "Boot image name (required)")
	f.StringVar(&req.ImageProject, "image-project", "", "Project hosting the boot image")
	f.StringVar(&req.BootDiskName, "boot-disk-name", "", "Boot disk name (defaults to the instance name)")
	f.Int64Var(&req.BootDiskSizeGB, "boot-disk-size", provisioning.DefaultBootDiskSizeGB, "Boot disk size in GB")
	f.BoolVar(&req.BootDiskSSD, "ssd", false, "Use an SSD persistent boot disk")
	f.StringSliceVar(&req.AdditionalDisks, "disk", nil, "Existing disk to attach (repeatable)")
	f.BoolVar(&req.CanIPForward, "can-ip-forward", false, "Allow the instance to forward packets")
	f.StringToStringVar(&req.Metadata, "metadata", nil, "Metadata key=value pairs")
	f.StringSliceVar(&req.Tags, "tags", nil, "Network tags")
	f.StringVar(&saEmail, "service-account", "", "Service account email (defaults to the default account)")
	f.StringSliceVar(&saScopes, "scopes", nil, "Service account scopes; the account is attached only when set")
	f.BoolVar(&req.AutoMigrate, "auto-migrate", true, "Live migrate on host maintenance instead of terminating")
	f.BoolVar(&req.AutoRestart, "auto-restart", true, "Restart automatically after a host failure")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func serverDelete(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an instance after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ServerDelete(cmd.Context(), g.session(cmd), args[0])
		},
	}
}

func serverList(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List instances in the zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ServerList(cmd.Context(), g.session(cmd))
		},
	}
}

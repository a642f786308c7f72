// Package main is the entry point for the gcectl CLI.
//
// gcectl creates, lists and deletes Google Compute Engine instances and
// persistent disks. Create requests are validated before any change is made
// and every change waits for its zone operation to complete.
//
// Commands: server, disk, zone, region, project, version.
//
// For detailed usage information, run:
//
//	gcectl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/imamik/gcectl/cmd/gcectl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

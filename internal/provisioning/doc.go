// Package provisioning orchestrates the lifecycle of Compute Engine instances and disks.
//
// # Workflows
//
// [Manager] runs the create, delete and list workflows of one project and
// zone. Creation is gated by the [Validator], which checks the machine type,
// the network, the public IP setting and the image in that order and stops at
// the first failure. Mutating calls return an Operation that is polled to
// DONE before the resource's own status is polled (RUNNING for instances,
// READY for disks).
//
// # Presentation
//
// Messages and confirmations go through the [Reporter] port, so the workflows
// do not depend on a terminal. Diagnostics use a logr.Logger and outcomes are
// counted in [Metrics].
package provisioning
